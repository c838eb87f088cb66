package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readZip(t *testing.T, name string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer r.Close()

	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_StoreAndClose(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	logName := filepath.Join(dir, "run.log")
	r.Store("final.log", logName)
	// file content written after Store must end up in report
	if err := os.WriteFile(logName, []byte("log line"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	r.StoreData("source.css", []byte("@font-face{}"))
	r.StoreData("source.css", []byte("second"))
	r.Store("absent", filepath.Join(dir, "does-not-exist"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readZip(t, conf.Destination)
	if files["final.log"] != "log line" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	if files["source.css"] != "@font-face{}" {
		t.Errorf("source.css = %q", files["source.css"])
	}
	versioned := 0
	for name := range files {
		if strings.HasPrefix(name, "source.css-") {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned duplicate entry, got %d in %v", versioned, files)
	}
	if _, ok := files["absent"]; ok {
		t.Error("absent file should not be in report")
	}
	if !strings.Contains(files["MANIFEST"], "final.log") {
		t.Errorf("MANIFEST does not list final.log:\n%s", files["MANIFEST"])
	}
}

func TestReport_StoreConflictPanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "/tmp/a.log")
	r.Store("final.log", "/tmp/a.log") // same path is fine

	defer func() {
		if recover() == nil {
			t.Error("expected panic on overwrite with different path")
		}
	}()
	r.Store("final.log", "/tmp/b.log")
}

func TestPrepareManifest_NaturalOrder(t *testing.T) {
	entries := map[string]entry{
		"font-10.woff2": {data: []byte("x")},
		"font-2.woff2":  {data: []byte("x")},
		"font-1.woff2":  {data: []byte("x")},
	}
	names, _ := prepareManifest(entries)
	want := []string{"font-1.woff2", "font-2.woff2", "font-10.woff2"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("nil Report.Close() should return nil, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if r.Name() != "" {
		t.Errorf("nil Report.Name() = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Report.Close() with nil file should return nil, got: %v", err)
	}
}
