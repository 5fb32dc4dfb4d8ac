package vdom

import "github.com/kilianc/vex/internal/vex/expr"

// Differ walks the committed render tree and a fully expanded descriptor
// tree in lock-step via parallel stacks, emitting the minimal patch list
// in document order. Children are compared purely by position: an
// insertion in the middle shows up as a run of in-place changes plus a
// trailing append, never as a move.
type Differ struct {
	olds    []*RenderNode
	news    []*Descriptor
	parents []*RenderNode
	patches []Patch
}

func NewDiffer(root *RenderNode, desc *Descriptor) *Differ {
	d := &Differ{}
	d.push(root, desc, nil)
	return d
}

func (d *Differ) push(old *RenderNode, desc *Descriptor, parent *RenderNode) {
	d.olds = append(d.olds, old)
	d.news = append(d.news, desc)
	d.parents = append(d.parents, parent)
}

// Patches returns the accumulated patch list; only meaningful once Step
// has reported completion.
func (d *Differ) Patches() []Patch {
	return d.patches
}

// Step compares one node pair. It reports whether the diff is complete.
func (d *Differ) Step() bool {
	if len(d.olds) == 0 {
		return true
	}
	top := len(d.olds) - 1
	old, desc, parent := d.olds[top], d.news[top], d.parents[top]
	d.olds = d.olds[:top]
	d.news = d.news[:top]
	d.parents = d.parents[:top]

	switch {
	case old.Src != nil && old.Src == desc:
		// hoisted subtree, known unchanged

	case old.Name != desc.Name:
		d.patches = append(d.patches, Patch{Op: OpReplaceNode, Node: old, Desc: desc, Parent: parent})

	case old.Kind == KindText:
		if !attrsEqual(old.Attrs, desc.Attrs) {
			d.patches = append(d.patches, Patch{Op: OpUpdateText, Node: old, Desc: desc})
		}

	default:
		if !attrsEqual(old.Attrs, desc.Attrs) {
			d.patches = append(d.patches, Patch{Op: OpSetAttributes, Node: old, Desc: desc})
		}
		d.diffChildren(old, desc)
	}
	return len(d.olds) == 0
}

func (d *Differ) diffChildren(old *RenderNode, desc *Descriptor) {
	shared := len(old.Children)
	if len(desc.Children) < shared {
		shared = len(desc.Children)
	}

	// surplus old children are truncated from the end
	for i := len(old.Children) - 1; i >= shared; i-- {
		d.patches = append(d.patches, Patch{Op: OpRemoveChild, Node: old.Children[i], Parent: old})
	}
	// surplus new children are appended in order
	for i := shared; i < len(desc.Children); i++ {
		d.patches = append(d.patches, Patch{Op: OpAppendChild, Desc: desc.Children[i], Parent: old})
	}

	// push the overlapping prefix in reverse so pairs pop left to right
	for i := shared - 1; i >= 0; i-- {
		d.push(old.Children[i], desc.Children[i], old)
	}
}

// attrsEqual compares only the keys present in the new attribute map, to
// match the patch phase: keys absent from the new data are never cleared,
// so they must not force spurious patches either.
func attrsEqual(old, upd map[string]any) bool {
	for k, nv := range upd {
		ov, ok := old[k]
		if !ok || !expr.Equal(ov, nv) {
			return false
		}
	}
	return true
}
