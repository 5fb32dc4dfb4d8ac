// Package vdom holds the reconciliation engine: the per-render view
// descriptor tree, the persistent render tree bound to host handles, and
// the three phases (expand, diff, patch) that keep them in sync.
package vdom

import (
	"github.com/kilianc/vex/internal/vex/expr"
)

// Kind classifies a descriptor. The split is purely lexical: the
// reserved name "text" is a text node, names starting lowercase are host
// elements, everything else is a component.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Descriptor is one node of the freshly built per-render view tree. It
// is never mutated after construction: the differ reads it, and the
// patch phase copies out of it. Text content lives under the unnamed
// ("") attribute.
type Descriptor struct {
	Kind     Kind
	Name     string
	Attrs    map[string]any
	Children []*Descriptor
}

// Text returns the formatted text content of a text descriptor.
func (d *Descriptor) Text() string {
	return expr.Format(d.Attrs[""])
}

// Routine builds a fresh descriptor tree from a data context. Compiled
// templates and registered components are both routines.
type Routine func(expr.Context) *Descriptor

// Registry maps component names to their routines. Expansion consults it
// for every component descriptor it pops.
type Registry struct {
	routines map[string]Routine
}

func NewRegistry() *Registry {
	return &Registry{routines: make(map[string]Routine)}
}

// Register binds name to routine, replacing any previous binding.
func (r *Registry) Register(name string, routine Routine) {
	r.routines[name] = routine
}

func (r *Registry) Lookup(name string) (Routine, bool) {
	routine, ok := r.routines[name]
	return routine, ok
}
