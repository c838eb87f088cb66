package config

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/maruel/natural"

	"fontpack/misc"
)

const manifestName = "MANIFEST"

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare opens report archive at configured destination. When destination
// cannot be created report goes to a temporary file instead.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is either in-memory data or a file on disk read at the very end.
type entry struct {
	original string
	actual   string
	stamp    time.Time
	data     []byte
}

func (e entry) describe() string {
	if e.data != nil {
		return fmt.Sprintf("%d bytes", len(e.data))
	}
	return e.original + " : " + e.actual
}

// content returns entry body and its time. Missing or irregular files yield
// fs.ErrNotExist.
func (e entry) content() (io.ReadCloser, time.Time, error) {
	if e.data != nil {
		return io.NopCloser(bytes.NewReader(e.data)), e.stamp, nil
	}
	info, err := os.Stat(e.actual)
	if err != nil || !info.Mode().IsRegular() {
		return nil, time.Time{}, fs.ErrNotExist
	}
	f, err := os.Open(e.actual)
	if err != nil {
		return nil, time.Time{}, err
	}
	return f, info.ModTime(), nil
}

// Report collects files and data for the debug archive. A nil *Report is
// valid and does nothing. Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes all collected entries and closes report file.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	return r.finalize()
}

// Name returns absolute name of report file when it can be determined.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	name := r.file.Name()
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	return name
}

// Store registers file to be copied into report on Close, so files still
// being written (logs) end up complete. Registering the same name for a
// different path is a programming error.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if prev, ok := r.entries[name]; ok && prev.original != path {
		panic(fmt.Sprintf("report entry %q already points to %s, refusing %s", name, prev.original, path))
	}
	actual := path
	if abs, err := filepath.Abs(path); err == nil {
		actual = abs
	}
	r.entries[name] = entry{original: path, actual: actual}
}

// StoreData keeps a copy of data under name. When name is taken, entry gets
// a nanosecond suffix.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	now := time.Now()
	if _, ok := r.entries[name]; ok {
		name = fmt.Sprintf("%s-%d", name, now.UnixNano())
	}
	if data == nil {
		// nil data marks file entries
		data = []byte{}
	}
	r.entries[name] = entry{data: bytes.Clone(data), stamp: now}
}

func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names, manifest := prepareManifest(r.entries)
	err := saveFile(arc, manifestName, time.Now(), manifest)
	for _, name := range names {
		if err != nil {
			break
		}
		err = r.copyEntry(arc, name)
	}
	return errors.Join(err, arc.Close())
}

func (r *Report) copyEntry(arc *zip.Writer, name string) error {
	body, stamp, err := r.entries[name].content()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer body.Close()
	return saveFile(arc, name, stamp, body)
}

// prepareManifest returns entry names in natural order together with the
// manifest listing them.
func prepareManifest(entries map[string]entry) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	if len(entries) == 0 {
		return nil, buf
	}

	names := slices.SortedFunc(maps.Keys(entries), func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	now := time.Now()
	for _, name := range names {
		e := entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), name, e.describe())
	}
	return names, buf
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	_, err = io.Copy(w, src)
	return err
}
