// Package css turns stylesheet text into a small syntax tree.
//
// Tokenizing and grammar grouping are done by tdewolff/parse, this package
// only assembles its output into nodes the rest of the program can match on.
package css

import (
	"strconv"
	"strings"
)

// Kind identifies the concrete type behind a Node.
type Kind int

const (
	KindNone Kind = iota
	KindStyleSheet
	KindAtrule
	KindRule
	KindBlock
	KindDeclaration
	KindValue
	KindString
	KindNumber
	KindDimension
	KindPercentage
	KindIdentifier
	KindURL
	KindFunction
	KindUnicodeRange
	KindOperator
	KindHash
	KindRaw
)

var kindNames = [...]string{
	KindNone:         "None",
	KindStyleSheet:   "StyleSheet",
	KindAtrule:       "Atrule",
	KindRule:         "Rule",
	KindBlock:        "Block",
	KindDeclaration:  "Declaration",
	KindValue:        "Value",
	KindString:       "String",
	KindNumber:       "Number",
	KindDimension:    "Dimension",
	KindPercentage:   "Percentage",
	KindIdentifier:   "Identifier",
	KindURL:          "Url",
	KindFunction:     "Function",
	KindUnicodeRange: "UnicodeRange",
	KindOperator:     "Operator",
	KindHash:         "Hash",
	KindRaw:          "Raw",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is implemented by every element of the syntax tree.
type Node interface {
	Kind() Kind
}

// KindOf returns the kind of n, KindNone for nil.
func KindOf(n Node) Kind {
	if n == nil {
		return KindNone
	}
	return n.Kind()
}

type (
	// StyleSheet is the root of the tree: top-level rules in source order.
	StyleSheet struct {
		Children []Node
	}

	// Atrule is an @-rule. Name has no leading "@" and is lowercased. Block
	// is nil for statements like @import.
	Atrule struct {
		Name    string
		Prelude string
		Block   *Block
	}

	// Rule is a qualified rule (selector + block). Font processing never
	// looks inside, only the selector text is kept for diagnostics.
	Rule struct {
		Selector string
		Block    *Block
	}

	// Block holds declarations of a rule or at-rule.
	Block struct {
		Children []Node
	}

	// Declaration is a single "property: value" pair. Property is lowercased.
	Declaration struct {
		Property  string
		Value     Node
		Important bool
	}

	// Value is an ordered sequence of component values.
	Value struct {
		Children []Node
	}

	// String is a quoted string with quotes removed and escapes resolved.
	String struct {
		Value string
	}

	// Number keeps the literal text of a number ("700", "1.5").
	Number struct {
		Value string
	}

	Dimension struct {
		Value string
		Unit  string
	}

	Percentage struct {
		Value string
	}

	Identifier struct {
		Name string
	}

	// URL is url(...). Value is *String for quoted content and *Raw otherwise.
	URL struct {
		Value Node
	}

	// Function is name(...) with its arguments. Name is lowercased and has
	// no parenthesis.
	Function struct {
		Name     string
		Children []Node
	}

	// UnicodeRange keeps the token text verbatim, e.g. "U+0025-00FF".
	UnicodeRange struct {
		Value string
	}

	// Operator is a single delimiter: ",", "/", etc.
	Operator struct {
		Value string
	}

	Hash struct {
		Value string
	}

	// Raw is text which is not interpreted any further.
	Raw struct {
		Value string
	}
)

func (*StyleSheet) Kind() Kind   { return KindStyleSheet }
func (*Atrule) Kind() Kind       { return KindAtrule }
func (*Rule) Kind() Kind         { return KindRule }
func (*Block) Kind() Kind        { return KindBlock }
func (*Declaration) Kind() Kind  { return KindDeclaration }
func (*Value) Kind() Kind        { return KindValue }
func (*String) Kind() Kind       { return KindString }
func (*Number) Kind() Kind       { return KindNumber }
func (*Dimension) Kind() Kind    { return KindDimension }
func (*Percentage) Kind() Kind   { return KindPercentage }
func (*Identifier) Kind() Kind   { return KindIdentifier }
func (*URL) Kind() Kind          { return KindURL }
func (*Function) Kind() Kind     { return KindFunction }
func (*UnicodeRange) Kind() Kind { return KindUnicodeRange }
func (*Operator) Kind() Kind     { return KindOperator }
func (*Hash) Kind() Kind         { return KindHash }
func (*Raw) Kind() Kind          { return KindRaw }

// Declarations returns declarations of the block in source order. It is safe
// to call on nil block.
func (b *Block) Declarations() []*Declaration {
	if b == nil {
		return nil
	}
	decls := make([]*Declaration, 0, len(b.Children))
	for _, n := range b.Children {
		if d, ok := n.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Text renders a component value back into CSS text. It is used for
// diagnostics, not for producing output stylesheets.
func Text(n Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

func writeText(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Value:
		for i, c := range v.Children {
			if i > 0 && KindOf(c) != KindOperator {
				sb.WriteByte(' ')
			}
			writeText(sb, c)
		}
	case *String:
		sb.WriteByte('"')
		sb.WriteString(EscapeDoubleQuoted(v.Value))
		sb.WriteByte('"')
	case *Number:
		sb.WriteString(v.Value)
	case *Dimension:
		sb.WriteString(v.Value)
		sb.WriteString(v.Unit)
	case *Percentage:
		sb.WriteString(v.Value)
		sb.WriteByte('%')
	case *Identifier:
		sb.WriteString(v.Name)
	case *URL:
		sb.WriteString("url(")
		writeText(sb, v.Value)
		sb.WriteByte(')')
	case *Function:
		sb.WriteString(v.Name)
		sb.WriteByte('(')
		for i, c := range v.Children {
			if i > 0 && KindOf(c) != KindOperator {
				sb.WriteByte(' ')
			}
			writeText(sb, c)
		}
		sb.WriteByte(')')
	case *UnicodeRange:
		sb.WriteString(v.Value)
	case *Operator:
		sb.WriteString(v.Value)
	case *Hash:
		sb.WriteByte('#')
		sb.WriteString(v.Value)
	case *Raw:
		sb.WriteString(v.Value)
	}
}
