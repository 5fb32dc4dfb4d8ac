// Package vex renders declarative templates into a live, host-rendered
// tree and keeps that tree synchronized with changing data.
//
// A template compiles to a routine from a data context to a view
// descriptor tree; a mounted session expands components, diffs against
// the previous tree, and patches the host renderer, yielding to the
// frame clock between units of work.
package vex

import (
	"io"

	"github.com/kilianc/vex/internal/vex/ast"
	"github.com/kilianc/vex/internal/vex/compile"
	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/host"
	"github.com/kilianc/vex/internal/vex/lex"
	"github.com/kilianc/vex/internal/vex/parse"
	"github.com/kilianc/vex/internal/vex/report"
	"github.com/kilianc/vex/internal/vex/sched"
	"github.com/kilianc/vex/internal/vex/vdom"
)

// Core types, re-exported for external collaborators.
type (
	Token      = ast.Token
	Node       = ast.Node
	ParseError = ast.ParseError

	Context    = expr.Context
	Descriptor = vdom.Descriptor
	RenderNode = vdom.RenderNode
	Routine    = vdom.Routine
	Registry   = vdom.Registry
	Patch      = vdom.Patch

	Handler = report.Handler

	Renderer   = host.Renderer
	FrameClock = host.FrameClock
	Handle     = host.Handle

	Session = sched.Session
	Config  = sched.Config
)

// NewHandler returns a diagnostics handler writing to out (nil records
// only); diagnostics are advisory and never stop a render.
func NewHandler(out io.Writer) *Handler { return report.NewHandler(out) }

// NewStrictHandler returns a handler that turns the first diagnostic
// into an error, aborting the emitting stage.
func NewStrictHandler(out io.Writer) *Handler { return report.NewStrictHandler(out) }

// NewRegistry returns an empty component registry.
func NewRegistry() *Registry { return vdom.NewRegistry() }

// Compile turns template text into a constructor routine. Diagnostics go
// to h; pass nil to record silently. A parse failure yields no routine.
func Compile(src string, h *Handler) (Routine, error) {
	return compile.Compile(src, h)
}

// Lex, Parse, and Generate expose the individual compiler stages.
func Lex(src string, h *Handler) []Token {
	return lex.Lex(src, h)
}

func Parse(tokens []Token) (*Node, error) {
	return parse.Parse(tokens)
}

func Generate(n *Node, h *Handler) Routine {
	return compile.Generate(n, h)
}

// Mount wires a compiled view, a data context, and a mount target into a
// live session and schedules the initial render.
func Mount(cfg Config) *Session {
	return sched.Mount(cfg)
}
