// Package report collects advisory diagnostics emitted while lexing,
// compiling, and rendering templates.
//
// Diagnostics are not control flow: in the default (non-strict) mode the
// emitting stage records them and continues best-effort. A strict handler
// turns the first diagnostic into an error, which aborts the stage.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

// Pos is a location in template text. Line is 1-based, Col is a 1-based
// display column (grapheme-aware, so multi-byte runes count once).
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// PosAt computes the Pos of byte offset off within src.
func PosAt(src string, off int) Pos {
	if off > len(src) {
		off = len(src)
	}
	head := src[:off]
	line := strings.Count(head, "\n") + 1
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}
	return Pos{Offset: off, Line: line, Col: uniseg.StringWidth(head) + 1}
}

// Diagnostic is one recorded problem with a location.
type Diagnostic struct {
	Pos Pos
	Msg string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
}

// Handler accumulates diagnostics for one compile or one live session.
//
// The zero value is a usable non-strict handler that only records.
type Handler struct {
	strict bool
	out    io.Writer
	diags  []Diagnostic
}

// NewHandler returns a handler that writes each diagnostic to out as it
// arrives. A nil out only records.
func NewHandler(out io.Writer) *Handler {
	return &Handler{out: out}
}

// NewStrictHandler returns a handler whose Errorf reports failure to the
// caller, stopping the emitting stage at the first diagnostic.
func NewStrictHandler(out io.Writer) *Handler {
	return &Handler{out: out, strict: true}
}

// Errorf records a diagnostic. The returned error is non-nil only for a
// strict handler; non-strict callers are expected to continue.
func (h *Handler) Errorf(pos Pos, format string, args ...any) error {
	d := Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	h.diags = append(h.diags, d)
	if h.out != nil {
		_, _ = fmt.Fprintln(h.out, d.Error())
	}
	if h.strict {
		return d
	}
	return nil
}

// Diagnostics returns everything recorded so far, in emission order.
func (h *Handler) Diagnostics() []Diagnostic {
	return h.diags
}

// Err returns the first diagnostic as an error, or nil if none were
// recorded.
func (h *Handler) Err() error {
	if len(h.diags) == 0 {
		return nil
	}
	return h.diags[0]
}
