package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into a syntax tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a StyleSheet. Parsing is forgiving the same way
// browsers are: malformed constructs are dropped and never reported as errors.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *StyleSheet {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	sheet := &StyleSheet{}
	sheet.Children = p.parseRules(parser, false)

	p.log.Debug("Parsed CSS", zap.Int("rules", len(sheet.Children)))
	return sheet
}

// parseRules consumes grammar until input ends or, when nested, until the
// end of the enclosing block.
func (p *Parser) parseRules(parser *css.Parser, nested bool) []Node {
	var (
		nodes     []Node
		selectors []string
	)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return nodes

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if nested {
				return nodes
			}
			// stray closing brace at top level - ignore

		case css.BeginAtRuleGrammar:
			at := p.atrule(data, parser.Values())
			at.Block = &Block{Children: p.parseRules(parser, true)}
			nodes = append(nodes, at)

		case css.AtRuleGrammar:
			nodes = append(nodes, p.atrule(data, parser.Values()))

		case css.QualifiedRuleGrammar:
			// selector of a group, the last one arrives with BeginRulesetGrammar
			selectors = append(selectors, tokensText(data, parser.Values()))

		case css.BeginRulesetGrammar:
			selectors = append(selectors, tokensText(data, parser.Values()))
			rule := &Rule{Selector: strings.Join(selectors, ", ")}
			selectors = nil
			rule.Block = &Block{Children: p.parseRules(parser, true)}
			nodes = append(nodes, rule)

		case css.DeclarationGrammar:
			if !nested {
				p.log.Debug("Skipping declaration outside of block", zap.ByteString("property", data))
				continue
			}
			nodes = append(nodes, p.declaration(data, parser.Values()))

		case css.CustomPropertyGrammar:
			if !nested {
				continue
			}
			nodes = append(nodes, &Declaration{
				Property: string(data),
				Value:    &Raw{Value: strings.TrimSpace(tokensText(nil, parser.Values()))},
			})
		}
	}
}

func (p *Parser) atrule(data []byte, values []css.Token) *Atrule {
	name := strings.ToLower(strings.TrimPrefix(string(data), "@"))
	at := &Atrule{
		Name:    name,
		Prelude: strings.TrimSpace(tokensText(nil, values)),
	}
	p.log.Debug("Parsed @-rule", zap.String("rule", name))
	return at
}

func (p *Parser) declaration(data []byte, values []css.Token) *Declaration {
	vb := valueBuilder{tokens: values}
	children := vb.sequence(false)
	return &Declaration{
		Property:  strings.ToLower(string(data)),
		Value:     &Value{Children: children},
		Important: vb.important,
	}
}

// valueBuilder folds the flat token list of a declaration into component
// values, grouping function arguments under their function node.
type valueBuilder struct {
	tokens    []css.Token
	pos       int
	important bool
}

func (vb *valueBuilder) sequence(inFunction bool) []Node {
	var nodes []Node
	for vb.pos < len(vb.tokens) {
		t := vb.tokens[vb.pos]
		vb.pos++

		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue

		case css.RightParenthesisToken:
			if inFunction {
				return nodes
			}
			nodes = append(nodes, &Operator{Value: ")"})

		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(t.Data), "("))
			fn := &Function{Name: name}
			fn.Children = vb.sequence(true)
			nodes = append(nodes, fn)

		case css.DelimToken:
			if string(t.Data) == "!" && vb.consumeImportant() {
				continue
			}
			nodes = append(nodes, &Operator{Value: string(t.Data)})

		default:
			nodes = append(nodes, component(t))
		}
	}
	return nodes
}

// consumeImportant checks whether "!" is followed by "important" keyword and
// consumes it.
func (vb *valueBuilder) consumeImportant() bool {
	i := vb.pos
	for i < len(vb.tokens) && vb.tokens[i].TokenType == css.WhitespaceToken {
		i++
	}
	if i < len(vb.tokens) && vb.tokens[i].TokenType == css.IdentToken &&
		strings.EqualFold(string(vb.tokens[i].Data), "important") {
		vb.pos = i + 1
		vb.important = true
		return true
	}
	return false
}

// component converts a single token into a node.
func component(t css.Token) Node {
	s := string(t.Data)
	switch t.TokenType {
	case css.StringToken:
		return &String{Value: Unquote(s)}
	case css.NumberToken:
		return &Number{Value: s}
	case css.PercentageToken:
		return &Percentage{Value: strings.TrimSuffix(s, "%")}
	case css.DimensionToken:
		num, unit := splitDimension(s)
		return &Dimension{Value: num, Unit: unit}
	case css.IdentToken:
		return &Identifier{Name: s}
	case css.URLToken:
		return urlNode(s)
	case css.UnicodeRangeToken:
		return &UnicodeRange{Value: s}
	case css.HashToken:
		return &Hash{Value: strings.TrimPrefix(s, "#")}
	case css.CommaToken, css.ColonToken, css.SemicolonToken,
		css.LeftParenthesisToken, css.LeftBracketToken, css.RightBracketToken:
		return &Operator{Value: s}
	default:
		return &Raw{Value: s}
	}
}

// urlNode handles url(...) token: url("a"), url('a') and url(a).
func urlNode(s string) *URL {
	inner := s
	if i := strings.IndexByte(inner, '('); i >= 0 {
		inner = inner[i+1:]
	}
	inner = strings.TrimSpace(strings.TrimSuffix(inner, ")"))
	if len(inner) > 0 && (inner[0] == '"' || inner[0] == '\'') {
		return &URL{Value: &String{Value: Unquote(inner)}}
	}
	return &URL{Value: &Raw{Value: unescape(inner)}}
}

// splitDimension separates numeric part of the dimension token from its unit.
func splitDimension(s string) (string, string) {
	end := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9', c == '.':
		case (c == '+' || c == '-') && i == 0:
		case (c == 'e' || c == 'E') && i+1 < len(s) && ('0' <= s[i+1] && s[i+1] <= '9'):
		default:
			return s[:end], s[end:]
		}
		end = i + 1
	}
	return s[:end], s[end:]
}

// tokensText rebuilds source text from grammar data and tokens, collapsing
// whitespace runs.
func tokensText(data []byte, tokens []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	space := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken || t.TokenType == css.CommentToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}
