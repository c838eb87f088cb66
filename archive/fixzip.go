package archive

import (
	"errors"
	"fmt"
	"os"

	fixzip "github.com/hidez8891/zip"
)

// FixZip rewrites archive from into to, copying every entry raw but with the
// data descriptor flag cleared. Some e-readers and font managers reject
// entries whose sizes follow the data.
func FixZip(from, to string) (err error) {
	src, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to open archive %s: %w", from, err)
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", to, err)
	}
	defer func() {
		err = errors.Join(err, dst.Close())
	}()

	w := fixzip.NewWriter(dst)
	for _, f := range src.File {
		f.Flags &^= fixzip.FlagDataDescriptor
		if err := w.CopyFile(f); err != nil {
			return errors.Join(fmt.Errorf("unable to copy %s into %s: %w", f.Name, to, err), w.Close())
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finish %s: %w", to, err)
	}
	return nil
}
