// Package lex turns template text into a token stream.
//
// The grammar is fixed: tags, a `{expression}` escape, comments, and bare
// text. Literal text and interpolations both become synthetic
// self-closing "text" tokens; the stored value is double-quoted when
// literal and scoped expression source otherwise.
package lex

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kilianc/vex/internal/vex/ast"
	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/report"
)

var (
	// One structural match per opening tag: name, raw attribute text,
	// optional self-closing marker. Quoted and braced runs shield '>'.
	openRe = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9_-]*)((?:"[^"]*"|'[^']*'|\{[^{}]*\}|[^>])*?)(/?)>`)

	closeRe = regexp.MustCompile(`^</\s*([A-Za-z][A-Za-z0-9_-]*)\s*>`)

	// Attribute pairs inside the raw attribute text, in document order:
	// key, key="literal", key='literal', or key={expression}.
	attrRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_-]*)\s*(?:=\s*(?:"([^"]*)"|'([^']*)'|\{([^{}]*)\}))?`)
)

// Lex scans src into tokens. Diagnostics go to h; a fatal one (unterminated
// comment or interpolation, malformed or unclosed tag) stops the scan, so a
// non-strict handler yields a best-effort prefix of the stream and the
// parser is left to fail cleanly.
func Lex(src string, h *report.Handler) []ast.Token {
	s := strings.TrimSpace(src)
	var toks []ast.Token

	i := 0
	for i < len(s) {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest, "-->")
			if end < 0 {
				h.Errorf(report.PosAt(s, i), "unterminated comment")
				return toks
			}
			i += end + len("-->")

		case strings.HasPrefix(rest, "</"):
			m := closeRe.FindStringSubmatch(rest)
			if m == nil {
				h.Errorf(report.PosAt(s, i), "missing '>' in closing tag")
				return toks
			}
			toks = append(toks, ast.Token{Type: ast.TokenClose, Name: m[1], Pos: i})
			i += len(m[0])

		case rest[0] == '<':
			m := openRe.FindStringSubmatch(rest)
			if m == nil {
				h.Errorf(report.PosAt(s, i), "malformed tag")
				return toks
			}
			toks = append(toks, ast.Token{
				Type:        ast.TokenOpen,
				Name:        m[1],
				Attrs:       scanAttrs(m[2]),
				SelfClosing: m[3] == "/",
				Pos:         i,
			})
			i += len(m[0])

		case rest[0] == '{':
			inner, size, ok := braced(rest)
			if !ok {
				h.Errorf(report.PosAt(s, i), "unterminated interpolation")
				return toks
			}
			toks = append(toks, textToken(expr.Scope(inner), i))
			i += size

		default:
			j := i
			for j < len(s) && s[j] != '<' && s[j] != '{' {
				j++
			}
			toks = append(toks, textToken(strconv.Quote(s[i:j]), i))
			i = j
		}
	}
	return toks
}

// textToken wraps a value (quoted literal or scoped expression) in the
// synthetic self-closing "text" tag under the unnamed attribute.
func textToken(value string, pos int) ast.Token {
	return ast.Token{
		Type:        ast.TokenOpen,
		Name:        "text",
		Attrs:       []ast.Attr{{Key: "", Value: value}},
		SelfClosing: true,
		Pos:         pos,
	}
}

// braced returns the contents of a `{…}` run starting at s[0], balancing
// nested braces, plus the total size consumed.
func braced(s string) (inner string, size int, ok bool) {
	depth := 0
	for j := 0; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:j], j + 1, true
			}
		}
	}
	return "", 0, false
}

// scanAttrs re-scans raw attribute text for key/value pairs in document
// order. Duplicate keys are kept; the parser's map build makes the last
// one win. Bare keys read as the literal "true".
func scanAttrs(raw string) []ast.Attr {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var attrs []ast.Attr
	for _, idx := range attrRe.FindAllStringSubmatchIndex(raw, -1) {
		key := raw[idx[2]:idx[3]]
		switch {
		case idx[4] >= 0: // "literal"
			attrs = append(attrs, ast.Attr{Key: key, Value: strconv.Quote(raw[idx[4]:idx[5]])})
		case idx[6] >= 0: // 'literal'
			attrs = append(attrs, ast.Attr{Key: key, Value: strconv.Quote(raw[idx[6]:idx[7]])})
		case idx[8] >= 0: // {expression}
			attrs = append(attrs, ast.Attr{Key: key, Value: expr.Scope(raw[idx[8]:idx[9]])})
		default: // bare key
			attrs = append(attrs, ast.Attr{Key: key, Value: strconv.Quote("true")})
		}
	}
	return attrs
}
