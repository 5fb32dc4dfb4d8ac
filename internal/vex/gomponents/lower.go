// Package gomponents lowers committed render trees and one-shot
// descriptor trees to maragu.dev/gomponents nodes, so a view can be
// serialized as HTML (CLI renders, snapshots, the playground).
package gomponents

import (
	"fmt"
	"io"
	"sort"

	g "maragu.dev/gomponents"

	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/vdom"
)

// Lower converts a render tree into a single gomponents Node.
func Lower(n *vdom.RenderNode) g.Node {
	if n.Kind == vdom.KindText {
		return g.Text(expr.Format(n.Attrs[""]))
	}
	args := make([]g.Node, 0, len(n.Attrs)+len(n.Children))
	args = append(args, attrNodes(n.Attrs)...)
	for _, c := range n.Children {
		args = append(args, Lower(c))
	}
	return g.El(n.Name, args...)
}

// LowerDescriptor converts a fully expanded descriptor tree. A component
// descriptor cannot be lowered; expand first.
func LowerDescriptor(d *vdom.Descriptor) (g.Node, error) {
	switch d.Kind {
	case vdom.KindText:
		return g.Text(d.Text()), nil
	case vdom.KindComponent:
		return nil, fmt.Errorf("cannot lower unexpanded component <%s>", d.Name)
	}
	args := make([]g.Node, 0, len(d.Attrs)+len(d.Children))
	args = append(args, attrNodes(d.Attrs)...)
	for _, c := range d.Children {
		child, err := LowerDescriptor(c)
		if err != nil {
			return nil, err
		}
		args = append(args, child)
	}
	return g.El(d.Name, args...), nil
}

// Render writes a render tree as HTML.
func Render(w io.Writer, n *vdom.RenderNode) error {
	return Lower(n).Render(w)
}

// attrNodes emits attributes in sorted key order so output is stable.
func attrNodes(attrs map[string]any) []g.Node {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]g.Node, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.Attr(k, expr.Format(attrs[k])))
	}
	return out
}
