package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"

	"fontpack/archive"
	"fontpack/fontface"
)

// Contents describes existing font bundle archive.
type Contents struct {
	// Fonts lists file names under fonts directory in archive order.
	Fonts   []string
	CSS     string
	Records []fontface.Record
	// Missing lists files referenced by stylesheet but absent from archive.
	Missing []string
	// Orphans lists files present in archive but never referenced.
	Orphans []string
}

// Consistent reports whether stylesheet and font files match each other.
func (c *Contents) Consistent() bool {
	return len(c.Missing) == 0 && len(c.Orphans) == 0
}

// Check reads archive produced by Build and cross-checks stylesheet
// references against archived font files.
func (b *Builder) Check(data []byte) (*Contents, error) {
	c := &Contents{}

	var haveCSS bool
	err := archive.WalkBytes(data, "", func(f *zip.File) error {
		switch {
		case strings.HasPrefix(f.Name, archive.FontsDir):
			c.Fonts = append(c.Fonts, strings.TrimPrefix(f.Name, archive.FontsDir))
		case f.Name == archive.StylesheetName:
			text, err := readFile(f)
			if err != nil {
				return err
			}
			c.CSS, haveCSS = text, true
		default:
			b.log.Debug("Ignoring unexpected archive entry", zap.String("name", f.Name))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}
	if !haveCSS {
		return nil, errors.New("archive does not contain " + archive.StylesheetName)
	}

	records, _, err := b.Analyze(c.CSS, archive.StylesheetName)
	if err != nil {
		return nil, err
	}
	c.Records = records

	referenced := make(map[string]struct{})
	for i := range records {
		for _, src := range records[i].Sources.All() {
			name := referencedName(src.URL)
			if _, ok := referenced[name]; ok {
				continue
			}
			referenced[name] = struct{}{}
			if !slices.Contains(c.Fonts, name) {
				c.Missing = append(c.Missing, name)
			}
		}
	}
	for _, name := range c.Fonts {
		if _, ok := referenced[name]; !ok {
			c.Orphans = append(c.Orphans, name)
		}
	}
	return c, nil
}

func referencedName(ref string) string {
	if u, err := url.Parse(ref); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(ref)
}

func readFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
