// Package fontface converts @font-face rules into normalized records and
// generates stylesheet text pointing at repackaged font files.
package fontface

const defaultKeyword = "normal"

// Weight is the font-weight of the face as written in the stylesheet: either
// a number ("700") or a keyword ("bold").
type Weight struct {
	Value   string
	Numeric bool
}

func (w Weight) String() string {
	return w.Value
}

// Record is normalized representation of a single @font-face rule.
type Record struct {
	Name   string
	Weight Weight
	Style  string
	// UnicodeRange is nil when rule has no unicode-range declaration.
	UnicodeRange *string
	Sources      Sources
}

// Source is a single font file of the face.
type Source struct {
	Format string
	URL    string
}

// Sources maps format tag to URL keeping order of first insertion. Empty
// format tag is valid and means format was not specified.
type Sources struct {
	items []Source
	index map[string]int
}

// Set assigns url to format. Existing format keeps its position.
func (s *Sources) Set(format, url string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[format]; ok {
		s.items[i].URL = url
		return
	}
	s.index[format] = len(s.items)
	s.items = append(s.items, Source{Format: format, URL: url})
}

// Get returns url for format.
func (s Sources) Get(format string) (string, bool) {
	i, ok := s.index[format]
	if !ok {
		return "", false
	}
	return s.items[i].URL, true
}

func (s Sources) Len() int {
	return len(s.items)
}

// All returns sources in insertion order. Returned slice must not be modified.
func (s Sources) All() []Source {
	return s.items
}
