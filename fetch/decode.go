package fetch

import (
	"bytes"
	"fmt"
	"io"
	"mime"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	charsetRule = []byte(`@charset "`)
	boms        = [][]byte{{0xEF, 0xBB, 0xBF}, {0xFE, 0xFF}, {0xFF, 0xFE}}
)

// decodeStylesheet converts stylesheet bytes to UTF-8. Encoding is taken,
// in order of preference, from BOM, charset parameter of Content-Type and
// @charset rule at the very beginning of stylesheet. Anything else is UTF-8,
// invalid sequences become U+FFFD.
func decodeStylesheet(data []byte, contentType string) (string, error) {
	if hasBOM(data) {
		text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", err
		}
		return string(text), nil
	}

	if contentCharset(contentType) != "" {
		r, err := charset.NewReader(bytes.NewReader(data), contentType)
		if err != nil {
			return "", err
		}
		text, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return string(text), nil
	}

	if label, ok := charsetLabel(data); ok {
		enc, err := ianaindex.IANA.Encoding(label)
		if err != nil || enc == nil {
			return "", fmt.Errorf("unsupported stylesheet charset %q", label)
		}
		text, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(text), nil
	}

	text, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func hasBOM(data []byte) bool {
	for _, bom := range boms {
		if bytes.HasPrefix(data, bom) {
			return true
		}
	}
	return false
}

func contentCharset(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// charsetLabel returns encoding label of @charset rule. The rule is only
// recognized at the very start of data, exactly as `@charset "label";`.
func charsetLabel(data []byte) (string, bool) {
	if hasBOM(data) {
		return "", false
	}
	if !bytes.HasPrefix(data, charsetRule) {
		return "", false
	}
	rest := data[len(charsetRule):]
	end := bytes.Index(rest, []byte(`";`))
	if end <= 0 {
		return "", false
	}
	return string(rest[:end]), true
}
