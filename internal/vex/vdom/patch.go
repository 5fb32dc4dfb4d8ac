package vdom

import "github.com/kilianc/vex/internal/vex/host"

// Op identifies one kind of host mutation.
type Op int

const (
	OpUpdateText Op = iota
	OpSetAttributes
	OpAppendChild
	OpRemoveChild
	OpReplaceNode
)

func (op Op) String() string {
	switch op {
	case OpUpdateText:
		return "update-text"
	case OpSetAttributes:
		return "set-attributes"
	case OpAppendChild:
		return "append-child"
	case OpRemoveChild:
		return "remove-child"
	case OpReplaceNode:
		return "replace-node"
	default:
		return "unknown"
	}
}

// Patch is one mutation instruction. Node is the old render node the
// patch targets (the removed child for OpRemoveChild), Desc the new
// descriptor when one exists, Parent the structural parent when the
// mutation is positional. Patches apply strictly in list order and no
// node is referenced by two patches.
type Patch struct {
	Op     Op
	Node   *RenderNode
	Desc   *Descriptor
	Parent *RenderNode
}

// Apply runs the patch list against the renderer, mutating the render
// tree in place to match the latest descriptor tree. It is never
// time-sliced: partial application would leave the host visibly
// inconsistent.
func Apply(r host.Renderer, patches []Patch) {
	for _, p := range patches {
		switch p.Op {
		case OpUpdateText:
			p.Node.Attrs[""] = p.Desc.Attrs[""]
			p.Node.Src = p.Desc
			r.SetText(p.Node.Handle, p.Desc.Text())

		case OpSetAttributes:
			// keys absent from the new data are left in place, never
			// cleared; attributes only accumulate or overwrite
			for k, v := range p.Desc.Attrs {
				p.Node.Attrs[k] = v
				r.SetAttribute(p.Node.Handle, k, v)
			}
			p.Node.Src = p.Desc

		case OpAppendChild:
			child := realize(r, p.Desc)
			p.Parent.Children = append(p.Parent.Children, child)
			r.AppendChild(p.Parent.Handle, child.Handle)

		case OpRemoveChild:
			// the differ only ever emits trailing removals
			last := len(p.Parent.Children) - 1
			tail := p.Parent.Children[last]
			p.Parent.Children = p.Parent.Children[:last]
			r.RemoveChild(p.Parent.Handle, tail.Handle)

		case OpReplaceNode:
			fresh := realize(r, p.Desc)
			if p.Parent != nil {
				r.ReplaceChild(p.Parent.Handle, p.Node.Handle, fresh.Handle)
			}
			// take over the old node's shell so indirect holders stay
			// valid; only the contents change identity
			*p.Node = *fresh
		}
	}
}
