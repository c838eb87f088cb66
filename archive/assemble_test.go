package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func readEntries(t *testing.T, data []byte) ([]*zip.File, map[string]string) {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	content := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		content[f.Name] = string(b)
	}
	return r.File, content
}

func TestAssembleBytes(t *testing.T) {
	entries := []Entry{
		{Name: "Inter-w-400-s-normal.woff2", Data: []byte("wOF2 regular")},
		{Name: "Inter-w-700-s-normal.ttf", Data: []byte("ttf bold")},
	}
	css := "@font-face {\n  font-family: \"Inter\";\n}\n"

	data, err := AssembleBytes(entries, css)
	if err != nil {
		t.Fatalf("AssembleBytes() error = %v", err)
	}

	files, content := readEntries(t, data)

	wantOrder := []string{"fonts/", "fonts/Inter-w-400-s-normal.woff2", "fonts/Inter-w-700-s-normal.ttf", "styles.css"}
	if len(files) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(files), len(wantOrder))
	}
	for i, f := range files {
		if f.Name != wantOrder[i] {
			t.Errorf("entry %d = %s, want %s", i, f.Name, wantOrder[i])
		}
	}

	if !files[0].FileInfo().IsDir() {
		t.Error("fonts/ should be a directory entry")
	}
	if files[1].Method != zip.Store {
		t.Errorf("woff2 method = %d, want Store", files[1].Method)
	}
	if files[2].Method != zip.Deflate {
		t.Errorf("ttf method = %d, want Deflate", files[2].Method)
	}
	if content["fonts/Inter-w-700-s-normal.ttf"] != "ttf bold" {
		t.Errorf("font content = %q", content["fonts/Inter-w-700-s-normal.ttf"])
	}
	if content[StylesheetName] != css {
		t.Errorf("styles.css = %q, want %q", content[StylesheetName], css)
	}
}

func TestAssembleBytes_Deterministic(t *testing.T) {
	entries := []Entry{{Name: "a.woff", Data: []byte("a")}}

	first, err := AssembleBytes(entries, "x")
	if err != nil {
		t.Fatalf("AssembleBytes() error = %v", err)
	}
	second, err := AssembleBytes(entries, "x")
	if err != nil {
		t.Fatalf("AssembleBytes() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same input produced different archives")
	}
}

func TestAssembleBytes_Empty(t *testing.T) {
	data, err := AssembleBytes(nil, "")
	if err != nil {
		t.Fatalf("AssembleBytes() error = %v", err)
	}
	files, content := readEntries(t, data)
	if len(files) != 2 {
		t.Fatalf("got %d entries, want fonts/ and styles.css", len(files))
	}
	if s, ok := content[StylesheetName]; !ok || s != "" {
		t.Errorf("styles.css = %q, %v", s, ok)
	}
}

func TestAssemble_BadNames(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		errText string
	}{
		{"empty", []Entry{{Name: ""}}, "bad font file name"},
		{"slash", []Entry{{Name: "sub/a.woff"}}, "bad font file name"},
		{"backslash", []Entry{{Name: `sub\a.woff`}}, "bad font file name"},
		{"traversal", []Entry{{Name: ".."}}, "bad font file name"},
		{"duplicate", []Entry{{Name: "a.woff"}, {Name: "a.woff"}}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Assemble(&buf, tt.entries, "")
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Assemble() error = %v, want %q", err, tt.errText)
			}
			if buf.Len() != 0 {
				t.Error("nothing should be written on bad input")
			}
		})
	}
}
