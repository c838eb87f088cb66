package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

const (
	// FontsDir is the archive directory holding font files.
	FontsDir = "fonts/"
	// StylesheetName is the archive entry holding rewritten stylesheet.
	StylesheetName = "styles.css"
)

// stamp is used for all entries so the same input always produces the same
// archive.
var stamp = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is a named file to be put under FontsDir.
type Entry struct {
	Name string
	Data []byte
}

// Assemble writes zip archive to w: FontsDir directory entry, entries in the
// given order and stylesheet css as the last entry.
func Assemble(w io.Writer, entries []Entry, css string) error {

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if len(e.Name) == 0 || strings.ContainsAny(e.Name, `/\`) || !isSafePath(e.Name) {
			return fmt.Errorf("bad font file name %q", e.Name)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("duplicate font file name %q", e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	zw := zip.NewWriter(w)

	dir := &zip.FileHeader{Name: FontsDir, Method: zip.Store, Modified: stamp}
	dir.SetMode(0755 | fs.ModeDir)
	if _, err := zw.CreateHeader(dir); err != nil {
		return fmt.Errorf("unable to create %s: %w", FontsDir, err)
	}

	for _, e := range entries {
		if err := writeEntry(zw, FontsDir+e.Name, methodFor(e.Name), e.Data); err != nil {
			return err
		}
	}
	if err := writeEntry(zw, StylesheetName, zip.Deflate, []byte(css)); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to finalize archive: %w", err)
	}
	return nil
}

// AssembleBytes is Assemble producing archive in memory.
func AssembleBytes(entries []Entry, css string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Assemble(&buf, entries, css); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, method uint16, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method, Modified: stamp})
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	return nil
}

// methodFor stores already compressed web fonts as is.
func methodFor(name string) uint16 {
	switch strings.ToLower(path.Ext(name)) {
	case ".woff", ".woff2":
		return zip.Store
	default:
		return zip.Deflate
	}
}
