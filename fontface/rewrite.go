package fontface

import (
	"strings"

	"fontpack/css"
)

// Rewrite generates @font-face rules for records with every src url pointing
// to baseURL/<file name>. Blocks are separated by an empty line.
func Rewrite(records []Record, baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")

	var sb strings.Builder
	for i := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeBlock(&sb, &records[i], base)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, rec *Record, base string) {
	sb.WriteString("@font-face {\n")
	sb.WriteString(`  font-family: "` + css.EscapeDoubleQuoted(rec.Name) + "\";\n")

	srcs := make([]string, 0, rec.Sources.Len())
	for _, src := range rec.Sources.All() {
		u := css.EscapeSingleQuoted(base + "/" + FileName(rec, src.Format))
		srcs = append(srcs, "url('"+u+"') format('"+css.EscapeSingleQuoted(src.Format)+"')")
	}
	sb.WriteString("  src: " + strings.Join(srcs, ", ") + ";\n")
	sb.WriteString("  font-weight: " + rec.Weight.Value + ";\n")
	sb.WriteString("  font-style: " + rec.Style + ";\n")
	if rec.UnicodeRange != nil {
		sb.WriteString("  unicode-range: " + *rec.UnicodeRange + ";\n")
	}
	sb.WriteString("}\n")
}
