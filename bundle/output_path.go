package bundle

import (
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"

	"fontpack/config"
)

const defaultBaseName = "fonts"

// buildOutputName returns archive file name derived from stylesheet
// location: last path element without extension or host name when path is
// empty, followed by configured suffix. If requested name is transliterated.
func buildOutputName(src *url.URL, doc *config.DocumentConfig) string {
	baseName := strings.TrimSuffix(path.Base(src.Path), path.Ext(src.Path))
	if baseName == "." || baseName == "/" || baseName == "" {
		baseName = src.Hostname()
	}
	if baseName == "" {
		baseName = defaultBaseName
	}
	if doc.FileNameTransliterate {
		baseName = slug.Make(baseName)
	}
	return config.CleanFileName(baseName+doc.ArchiveSuffix) + ".zip"
}
