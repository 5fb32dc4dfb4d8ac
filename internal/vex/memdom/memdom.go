// Package memdom is an in-memory host renderer and frame clock. It backs
// the engine tests, the CLI's one-shot renders, and the playground; the
// op log makes "which mutations actually happened" assertable.
package memdom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/host"
)

// Node is one element or text node of the fake DOM.
type Node struct {
	Tag      string
	Text     string
	Attrs    map[string]any
	Children []*Node
}

// IsText reports whether the node was created as a text node.
func (n *Node) IsText() bool { return n.Tag == "" }

// String renders the subtree as compact HTML-ish markup for debugging
// and golden assertions. Attributes print in sorted order.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.Text)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, expr.Format(n.Attrs[k]))
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</" + n.Tag + ">")
}

// Renderer implements host.Renderer over Nodes and records every call in
// Ops as "op(args)" strings, in order.
type Renderer struct {
	Ops []string
}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) log(format string, args ...any) {
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

func (r *Renderer) CreateElement(tag string) host.Handle {
	r.log("createElement(%s)", tag)
	return &Node{Tag: tag, Attrs: map[string]any{}}
}

func (r *Renderer) CreateTextNode(text string) host.Handle {
	r.log("createTextNode(%s)", text)
	return &Node{Text: text}
}

func (r *Renderer) SetAttribute(node host.Handle, key string, value any) {
	n := node.(*Node)
	r.log("setAttribute(%s, %s=%s)", n.Tag, key, expr.Format(value))
	n.Attrs[key] = value
}

func (r *Renderer) SetText(node host.Handle, text string) {
	r.log("setText(%s)", text)
	node.(*Node).Text = text
}

func (r *Renderer) AppendChild(parent, child host.Handle) {
	p, c := parent.(*Node), child.(*Node)
	r.log("appendChild(%s)", describe(c))
	p.Children = append(p.Children, c)
}

func (r *Renderer) RemoveChild(parent, child host.Handle) {
	p, c := parent.(*Node), child.(*Node)
	r.log("removeChild(%s)", describe(c))
	for i, got := range p.Children {
		if got == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return
		}
	}
}

func (r *Renderer) ReplaceChild(parent, oldChild, newChild host.Handle) {
	p, o, n := parent.(*Node), oldChild.(*Node), newChild.(*Node)
	r.log("replaceChild(%s -> %s)", describe(o), describe(n))
	for i, got := range p.Children {
		if got == o {
			p.Children[i] = n
			return
		}
	}
}

func describe(n *Node) string {
	if n.IsText() {
		return fmt.Sprintf("text %q", n.Text)
	}
	return "<" + n.Tag + ">"
}
