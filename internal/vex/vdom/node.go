package vdom

import "github.com/kilianc/vex/internal/vex/host"

// RenderNode is the persistent counterpart of a Descriptor: the shape of
// what is currently on screen, owning the host handle for its node. The
// patch phase mutates it in place; outside that phase it always mirrors
// the most recently committed descriptor tree.
type RenderNode struct {
	Kind     Kind
	Name     string
	Attrs    map[string]any
	Children []*RenderNode
	Handle   host.Handle

	// Src is the descriptor this node was last committed from. When a
	// routine passes a sub-descriptor through unchanged, the differ sees
	// the same pointer and skips the whole subtree.
	Src *Descriptor
}

// NewMountRoot seeds the render tree for a mount target: the target's
// existing tag with no children, so the first pipeline produces the real
// content as AppendChild patches.
func NewMountRoot(tag string, handle host.Handle) *RenderNode {
	return &RenderNode{
		Kind:   KindElement,
		Name:   tag,
		Attrs:  map[string]any{},
		Handle: handle,
	}
}

// realize builds a fresh render subtree, creating host objects as it
// descends.
func realize(r host.Renderer, d *Descriptor) *RenderNode {
	n := &RenderNode{
		Kind:  d.Kind,
		Name:  d.Name,
		Attrs: make(map[string]any, len(d.Attrs)),
		Src:   d,
	}
	for k, v := range d.Attrs {
		n.Attrs[k] = v
	}

	if d.Kind == KindText {
		n.Handle = r.CreateTextNode(d.Text())
		return n
	}
	n.Handle = r.CreateElement(d.Name)
	for k, v := range d.Attrs {
		r.SetAttribute(n.Handle, k, v)
	}
	for _, c := range d.Children {
		child := realize(r, c)
		n.Children = append(n.Children, child)
		r.AppendChild(n.Handle, child.Handle)
	}
	return n
}
