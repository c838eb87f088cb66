package fontface

import "strings"

// Ext returns file extension (without dot) used for the format tag.
func Ext(format string) string {
	switch format {
	case "opentype":
		return "otf"
	case "":
		return "font"
	default:
		return format
	}
}

// FileName returns name of the font file inside archive. It depends only on
// name, weight and style of the face and on the format, so two sources of the
// same face with the same format end up under the same name.
// Path separators are replaced with underscores so the result is always a
// single archive entry.
func FileName(rec *Record, format string) string {
	return separators.Replace(rec.Name + "-w-" + rec.Weight.Value + "-s-" + rec.Style + "." + Ext(format))
}

var separators = strings.NewReplacer("/", "_", `\`, "_")

// Download is a single entry of DownloadMap.
type Download struct {
	Name string
	URL  string
}

// DownloadMap maps generated file names to source URLs in order of first
// appearance.
type DownloadMap struct {
	items []Download
	index map[string]int
}

// NewDownloadMap collects all sources of all records. On file name collision
// the later URL replaces the earlier one.
func NewDownloadMap(records []Record) *DownloadMap {
	dm := &DownloadMap{index: make(map[string]int)}
	for i := range records {
		for _, src := range records[i].Sources.All() {
			dm.set(FileName(&records[i], src.Format), src.URL)
		}
	}
	return dm
}

func (dm *DownloadMap) set(name, url string) {
	if i, ok := dm.index[name]; ok {
		dm.items[i].URL = url
		return
	}
	dm.index[name] = len(dm.items)
	dm.items = append(dm.items, Download{Name: name, URL: url})
}

// URL returns source URL for the file name.
func (dm *DownloadMap) URL(name string) (string, bool) {
	i, ok := dm.index[name]
	if !ok {
		return "", false
	}
	return dm.items[i].URL, true
}

func (dm *DownloadMap) Len() int {
	return len(dm.items)
}

// All returns entries in order. Returned slice must not be modified.
func (dm *DownloadMap) All() []Download {
	return dm.items
}
