package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// makeZip creates in memory archive with given names in order, names ending
// with "/" become directories.
func makeZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		hdr := &zip.FileHeader{Name: name}
		if name[len(name)-1] == '/' {
			hdr.SetMode(os.ModeDir | 0755)
		}
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if name[len(name)-1] != '/' {
			fw.Write([]byte("content of " + name))
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestWalkBytes(t *testing.T) {
	data := makeZip(t, "fonts/", "fonts/a.woff2", "fonts/b.woff", "styles.css")

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"fonts prefix", FontsDir, []string{"fonts/a.woff2", "fonts/b.woff"}},
		{"stylesheet", StylesheetName, []string{"styles.css"}},
		{"empty prefix", "", []string{"fonts/a.woff2", "fonts/b.woff", "styles.css"}},
		{"no match", "images/", nil},
		{"case sensitive", "Fonts/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := WalkBytes(data, tt.prefix, func(file *zip.File) error {
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("WalkBytes() error = %v", err)
			}
			if len(visited) != len(tt.want) {
				t.Fatalf("visited %v, want %v", visited, tt.want)
			}
			for i := range visited {
				if visited[i] != tt.want[i] {
					t.Errorf("visited[%d] = %s, want %s", i, visited[i], tt.want[i])
				}
			}
		})
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	data := makeZip(t, "fonts/1.woff", "fonts/2.woff", "fonts/3.woff")

	var visited int
	stopErr := errors.New("stop walking")
	err := WalkBytes(data, FontsDir, func(file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	for _, name := range []string{"../evil.woff", "fonts/../../evil.woff", "/abs.woff", `\win.woff`} {
		t.Run(name, func(t *testing.T) {
			data := makeZip(t, "fonts/ok.woff", name)
			err := WalkBytes(data, "", func(file *zip.File) error { return nil })
			if err == nil {
				t.Errorf("expected error for entry %q", name)
			}
		})
	}
}

func TestWalkFile(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := os.WriteFile(zipPath, makeZip(t, "fonts/a.woff2"), 0644); err != nil {
		t.Fatalf("Failed to write zip: %v", err)
	}

	err := WalkFile(zipPath, FontsDir, func(file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		if string(data) != "content of fonts/a.woff2" {
			t.Errorf("content = %q", data)
		}
		return nil
	})
	if err != nil {
		t.Errorf("WalkFile() error = %v", err)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := WalkFile("/nonexistent/file.zip", "", func(*zip.File) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip data", func(t *testing.T) {
		if err := WalkBytes([]byte("not a zip file"), "", func(*zip.File) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip data")
		}
	})
}
