// Package compile turns a parsed template into a constructor routine: a
// function from a data context to a freshly allocated descriptor tree.
package compile

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kilianc/vex/internal/vex/ast"
	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/lex"
	"github.com/kilianc/vex/internal/vex/parse"
	"github.com/kilianc/vex/internal/vex/report"
	"github.com/kilianc/vex/internal/vex/vdom"
)

// Compile chains lex, parse, and generate. A non-strict handler collects
// lex diagnostics and lets the parser report the structural damage; a
// parse failure means no usable routine, so it is returned as an error.
func Compile(src string, h *report.Handler) (vdom.Routine, error) {
	if h == nil {
		h = report.NewHandler(nil)
	}
	node, err := parse.Parse(lex.Lex(src, h))
	if err != nil {
		return nil, err
	}
	return Generate(node, h), nil
}

// Generate recursively builds the constructor routine for one AST node.
// The routine allocates a brand-new descriptor tree on every invocation;
// nothing is reused, which is what lets the differ treat pointer
// equality as proof of an unchanged subtree.
func Generate(n *ast.Node, h *report.Handler) vdom.Routine {
	if h == nil {
		h = report.NewHandler(nil)
	}
	kind := Classify(n.Name)

	children := make([]vdom.Routine, len(n.Children))
	for i, c := range n.Children {
		children[i] = Generate(c, h)
	}

	return func(ctx expr.Context) *vdom.Descriptor {
		attrs := make(map[string]any, len(n.Attrs))
		for k, raw := range n.Attrs {
			attrs[k] = evalAttr(raw, ctx, h)
		}
		kids := make([]*vdom.Descriptor, len(children))
		for i, build := range children {
			kids[i] = build(ctx)
		}
		return &vdom.Descriptor{Kind: kind, Name: n.Name, Attrs: attrs, Children: kids}
	}
}

// Classify maps a tag name to its descriptor kind. The rule is purely
// lexical: the reserved name "text", then lowercase-initial host
// elements, then components. No registry is consulted at compile time.
func Classify(name string) vdom.Kind {
	if name == "text" {
		return vdom.KindText
	}
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsLower(r) {
		return vdom.KindElement
	}
	return vdom.KindComponent
}

// evalAttr produces the runtime value of one stored attribute: a value
// that is exactly one double-quoted string is a literal, anything else
// is scoped expression source. An evaluation failure is advisory and
// degrades to nil.
func evalAttr(raw string, ctx expr.Context, h *report.Handler) any {
	if strings.HasPrefix(raw, `"`) {
		if s, err := strconv.Unquote(raw); err == nil {
			return s
		}
	}
	v, err := expr.Eval(raw, ctx)
	if err != nil {
		h.Errorf(report.Pos{}, "expression {%s}: %v", raw, err)
		return nil
	}
	return v
}
