package fontface

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fontpack/css"
)

const fontFaceKeyword = "font-face"

// Extract returns one record per top-level @font-face rule in source order.
// Extraction is strict: the first malformed declaration fails the whole
// stylesheet and no records are returned.
func Extract(sheet *css.StyleSheet, log *zap.Logger) ([]Record, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("extract")

	if sheet == nil {
		return nil, nil
	}

	var records []Record
	for _, n := range sheet.Children {
		at, ok := n.(*css.Atrule)
		if !ok || at.Name != fontFaceKeyword {
			continue
		}
		rec, err := extractRecord(at.Block.Declarations())
		if err != nil {
			return nil, fmt.Errorf("@font-face #%d: %w", len(records), err)
		}
		log.Debug("Extracted font face",
			zap.String("name", rec.Name),
			zap.Stringer("weight", rec.Weight),
			zap.String("style", rec.Style),
			zap.Int("sources", rec.Sources.Len()))
		records = append(records, rec)
	}
	return records, nil
}

func extractRecord(decls []*css.Declaration) (Record, error) {
	// only the first declaration of each property counts
	first := make(map[string]*css.Declaration, len(decls))
	for _, d := range decls {
		if _, seen := first[d.Property]; !seen {
			first[d.Property] = d
		}
	}

	var (
		rec = Record{Weight: Weight{Value: defaultKeyword}, Style: defaultKeyword}
		err error
	)

	if rec.Name, err = family(first["font-family"]); err != nil {
		return Record{}, err
	}
	if d, ok := first["font-style"]; ok {
		if rec.Style, err = style(d); err != nil {
			return Record{}, err
		}
	}
	if d, ok := first["font-weight"]; ok {
		if rec.Weight, err = weight(d); err != nil {
			return Record{}, err
		}
	}
	if d, ok := first["unicode-range"]; ok {
		r, err := unicodeRange(d)
		if err != nil {
			return Record{}, err
		}
		rec.UnicodeRange = &r
	}
	if d, ok := first["src"]; ok {
		if rec.Sources, err = sources(d); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// values returns children of declaration value which must be a Value node.
func values(d *css.Declaration) ([]css.Node, error) {
	v, ok := d.Value.(*css.Value)
	if !ok {
		return nil, unexpected(d.Property, d.Value, css.KindValue)
	}
	return v.Children, nil
}

// firstValue returns the first component of the declaration value or nil.
func firstValue(d *css.Declaration) (css.Node, error) {
	children, err := values(d)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}
	return children[0], nil
}

func family(d *css.Declaration) (string, error) {
	if d == nil {
		return "", unexpected("font-family", nil, css.KindString)
	}
	n, err := firstValue(d)
	if err != nil {
		return "", err
	}
	s, ok := n.(*css.String)
	if !ok {
		return "", unexpected(d.Property, n, css.KindString)
	}
	return s.Value, nil
}

func style(d *css.Declaration) (string, error) {
	n, err := firstValue(d)
	if err != nil {
		return "", err
	}
	id, ok := n.(*css.Identifier)
	if !ok {
		return "", unexpected(d.Property, n, css.KindIdentifier)
	}
	return id.Name, nil
}

func weight(d *css.Declaration) (Weight, error) {
	n, err := firstValue(d)
	if err != nil {
		return Weight{}, err
	}
	switch v := n.(type) {
	case *css.Number:
		return Weight{Value: v.Value, Numeric: true}, nil
	case *css.Identifier:
		return Weight{Value: v.Name}, nil
	default:
		return Weight{}, unexpected(d.Property, n, css.KindNumber, css.KindIdentifier)
	}
}

func unicodeRange(d *css.Declaration) (string, error) {
	children, err := values(d)
	if err != nil {
		return "", err
	}
	var ranges []string
	for _, n := range children {
		if ur, ok := n.(*css.UnicodeRange); ok {
			ranges = append(ranges, ur.Value)
		}
	}
	return strings.Join(ranges, ", "), nil
}

// srcState is the state of src scanner: either idle or holding url which is
// waiting for its format().
type srcState struct {
	pending *css.URL
}

// sources scans src value left to right. A url() followed by format() is
// stored under that format, a url() followed by another url() is stored
// under empty format. A url() at the very end of the value is dropped.
func sources(d *css.Declaration) (Sources, error) {
	children, err := values(d)
	if err != nil {
		return Sources{}, err
	}

	var (
		out   Sources
		state srcState
	)
	for _, n := range children {
		switch v := n.(type) {
		case *css.URL:
			if state.pending != nil {
				out.Set("", urlString(state.pending))
			}
			state.pending = v
		case *css.Function:
			format := formatTag(v)
			if state.pending == nil {
				return Sources{}, fmt.Errorf("%s: %w (format %q)", d.Property, ErrMissingFontFormatURL, format)
			}
			out.Set(format, urlString(state.pending))
			state.pending = nil
		}
	}
	// NOTE: state.pending may still hold a url here, it is intentionally not committed.
	return out, nil
}

// formatTag returns the first quoted string among function arguments.
func formatTag(fn *css.Function) string {
	for _, c := range fn.Children {
		if s, ok := c.(*css.String); ok {
			return s.Value
		}
	}
	return ""
}

func urlString(u *css.URL) string {
	switch v := u.Value.(type) {
	case *css.String:
		return v.Value
	case *css.Raw:
		return v.Value
	default:
		return ""
	}
}
