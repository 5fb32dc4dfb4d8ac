// Package parse builds the template tree from a token stream.
//
// The grammar is tiny and matched by exhaustive backtracking:
//
//	Element  -> SelfClosingOpen | Open Elements Close   (names must agree)
//	Elements -> ε | Element Elements
//
// Every split point of a range is tried in order, so a malformed stream
// fails with a ParseError chaining the deepest sub-failure instead of
// crashing. A chart keyed by (production, start, end) memoizes ranges;
// it only removes re-work and changes no result.
package parse

import (
	"github.com/tidwall/btree"

	"github.com/kilianc/vex/internal/vex/ast"
)

// Parse consumes tokens and returns the root element of the template.
func Parse(toks []ast.Token) (*ast.Node, error) {
	if len(toks) == 0 {
		return nil, &ast.ParseError{Msg: "empty template"}
	}
	p := &parser{toks: toks}
	node, perr := p.parseElement(0, len(toks))
	if perr != nil {
		return nil, perr
	}
	return node, nil
}

type elementResult struct {
	node *ast.Node
	err  *ast.ParseError
}

type elementsResult struct {
	nodes []*ast.Node
	err   *ast.ParseError
}

type parser struct {
	toks []ast.Token

	// chart entries; zero values are ready to use
	elemMemo btree.Map[int64, elementResult]
	listMemo btree.Map[int64, elementsResult]
}

// rangeKey packs a half-open token range into one chart key.
func rangeKey(start, end int) int64 {
	return int64(start)<<31 | int64(end)
}

// parseElement matches exactly the token range [start, end) as a single
// element.
func (p *parser) parseElement(start, end int) (*ast.Node, *ast.ParseError) {
	if r, ok := p.elemMemo.Get(rangeKey(start, end)); ok {
		return r.node, r.err
	}
	node, err := p.element(start, end)
	p.elemMemo.Set(rangeKey(start, end), elementResult{node: node, err: err})
	return node, err
}

func (p *parser) element(start, end int) (*ast.Node, *ast.ParseError) {
	if end-start < 1 {
		return nil, &ast.ParseError{Msg: "expected an element", Start: start, End: end}
	}

	first := p.toks[start]
	if end-start == 1 {
		if first.Type == ast.TokenOpen && first.SelfClosing {
			return makeNode(first, nil), nil
		}
		return nil, &ast.ParseError{Msg: "expected a self-closing element", Start: start, End: end}
	}

	if first.Type != ast.TokenOpen || first.SelfClosing {
		return nil, &ast.ParseError{Msg: "expected an opening tag", Start: start, End: end}
	}
	last := p.toks[end-1]
	if last.Type != ast.TokenClose || last.Name != first.Name {
		return nil, &ast.ParseError{
			Msg:   "missing closing tag for <" + first.Name + ">",
			Start: start,
			End:   end,
		}
	}

	children, err := p.parseElements(start+1, end-1)
	if err != nil {
		return nil, &ast.ParseError{
			Msg:   "in element <" + first.Name + ">",
			Start: start,
			End:   end,
			Cause: err,
		}
	}
	return makeNode(first, children), nil
}

// parseElements matches [start, end) as a possibly empty sequence of
// elements, trying every partition point for the first element.
func (p *parser) parseElements(start, end int) ([]*ast.Node, *ast.ParseError) {
	if r, ok := p.listMemo.Get(rangeKey(start, end)); ok {
		return r.nodes, r.err
	}
	nodes, err := p.elements(start, end)
	p.listMemo.Set(rangeKey(start, end), elementsResult{nodes: nodes, err: err})
	return nodes, err
}

func (p *parser) elements(start, end int) ([]*ast.Node, *ast.ParseError) {
	if start == end {
		return nil, nil
	}

	var best *ast.ParseError
	for k := start + 1; k <= end; k++ {
		head, err := p.parseElement(start, k)
		if err != nil {
			best = better(best, err)
			continue
		}
		tail, err := p.parseElements(k, end)
		if err != nil {
			best = better(best, err)
			continue
		}
		return append([]*ast.Node{head}, tail...), nil
	}
	return nil, &ast.ParseError{
		Msg:   "no element sequence matches",
		Start: start,
		End:   end,
		Cause: best,
	}
}

// better keeps the failure whose chain reached the latest token, the one
// most likely to describe what the author actually got wrong.
func better(a, b *ast.ParseError) *ast.ParseError {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Deepest().Start >= a.Deepest().Start {
		return b
	}
	return a
}

// makeNode folds a token's ordered attribute list into the node map,
// last occurrence winning for duplicate keys.
func makeNode(t ast.Token, children []*ast.Node) *ast.Node {
	attrs := make(map[string]string, len(t.Attrs))
	for _, a := range t.Attrs {
		attrs[a.Key] = a.Value
	}
	return &ast.Node{Name: t.Name, Attrs: attrs, Children: children}
}
