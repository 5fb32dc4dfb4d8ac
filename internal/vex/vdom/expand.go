package vdom

import (
	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/report"
)

// Expansion resolves components in a fresh descriptor tree until only
// element and text nodes remain. The work list is three parallel stacks
// (frontier node, its parent, its child index) so the scheduler can stop
// after any single unit and resume later by keeping the Expansion around.
type Expansion struct {
	reg *Registry
	h   *report.Handler

	root    *Descriptor
	nodes   []*Descriptor
	parents []*Descriptor
	indices []int
}

func NewExpansion(root *Descriptor, reg *Registry, h *report.Handler) *Expansion {
	if h == nil {
		h = report.NewHandler(nil)
	}
	e := &Expansion{reg: reg, h: h, root: root}
	e.push(root, nil, 0)
	return e
}

func (e *Expansion) push(n, parent *Descriptor, index int) {
	e.nodes = append(e.nodes, n)
	e.parents = append(e.parents, parent)
	e.indices = append(e.indices, index)
}

// Step pops and processes one frontier node. It reports whether the
// expansion is complete.
func (e *Expansion) Step() bool {
	if len(e.nodes) == 0 {
		return true
	}
	top := len(e.nodes) - 1
	node, parent, index := e.nodes[top], e.parents[top], e.indices[top]
	e.nodes = e.nodes[:top]
	e.parents = e.parents[:top]
	e.indices = e.indices[:top]

	if node.Kind == KindComponent {
		replacement := e.invoke(node)
		if parent == nil {
			e.root = replacement
		} else {
			parent.Children[index] = replacement
		}
		// re-examine the splice: a component may return a component
		e.push(replacement, parent, index)
		return len(e.nodes) == 0
	}

	for i, c := range node.Children {
		e.push(c, node, i)
	}
	return len(e.nodes) == 0
}

// Root returns the fully expanded tree; only meaningful once Step has
// reported completion.
func (e *Expansion) Root() *Descriptor {
	return e.root
}

// invoke runs the registered routine for a component with the
// component's attributes as its data context. An unknown component is an
// advisory diagnostic and degrades to an empty text node.
func (e *Expansion) invoke(node *Descriptor) *Descriptor {
	var routine Routine
	if e.reg != nil {
		routine, _ = e.reg.Lookup(node.Name)
	}
	if routine == nil {
		e.h.Errorf(report.Pos{}, "unknown component <%s>", node.Name)
		return &Descriptor{Kind: KindText, Name: "text", Attrs: map[string]any{"": ""}}
	}
	ctx := make(expr.Context, len(node.Attrs))
	for k, v := range node.Attrs {
		ctx[k] = v
	}
	return routine(ctx)
}
