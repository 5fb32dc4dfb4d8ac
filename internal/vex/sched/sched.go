// Package sched drives the reconciliation pipeline cooperatively: the
// expand and diff phases run as interruptible slices against a frame
// budget, the patch phase always completes within one frame callback,
// and queued updates are applied strictly in order.
package sched

import (
	"time"

	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/host"
	"github.com/kilianc/vex/internal/vex/report"
	"github.com/kilianc/vex/internal/vex/vdom"
)

// DefaultFrameBudget bounds how long the expand and diff phases may run
// before yielding to the next frame.
const DefaultFrameBudget = 8 * time.Millisecond

// SliceResult is the outcome of one RunSlice call.
type SliceResult int

const (
	// Done means the pipeline for the queue head committed, or there was
	// nothing to do.
	Done SliceResult = iota
	// Suspended means the frame budget ran out mid-phase; the remaining
	// work is held by the session and resumes on the next slice.
	Suspended
)

type phase int

const (
	phaseIdle phase = iota
	phaseExpand
	phaseDiff
)

// Config wires a session together at mount time.
type Config struct {
	View     vdom.Routine
	Registry *vdom.Registry
	Data     map[string]any
	Renderer host.Renderer
	Clock    host.FrameClock

	// Target is the host element the view mounts into; TargetTag is its
	// existing tag name, used to seed the stub render root.
	Target    host.Handle
	TargetTag string

	// Handler receives advisory diagnostics; nil means record-only.
	Handler *report.Handler

	// FrameBudget overrides DefaultFrameBudget when positive.
	FrameBudget time.Duration
}

// Session owns one mounted view: its data context, update queue, and
// render tree. All fields are touched only from frame callbacks (or
// before the first one), so there is no locking; exclusion holds by
// construction.
type Session struct {
	view     vdom.Routine
	reg      *vdom.Registry
	data     expr.Context
	renderer host.Renderer
	clock    host.FrameClock
	h        *report.Handler
	budget   time.Duration

	root  *vdom.RenderNode
	queue []map[string]any

	phase     phase
	exp       *vdom.Expansion
	diff      *vdom.Differ
	scheduled bool
	closed    bool
}

// Mount creates a session over the target element and schedules the
// initial render, which diffs against the seeded stub and therefore
// lands entirely as AppendChild patches.
func Mount(cfg Config) *Session {
	h := cfg.Handler
	if h == nil {
		h = report.NewHandler(nil)
	}
	budget := cfg.FrameBudget
	if budget <= 0 {
		budget = DefaultFrameBudget
	}
	data := make(expr.Context, len(cfg.Data))
	data.Merge(cfg.Data)

	s := &Session{
		view:     cfg.View,
		reg:      cfg.Registry,
		data:     data,
		renderer: cfg.Renderer,
		clock:    cfg.Clock,
		h:        h,
		budget:   budget,
		root:     vdom.NewMountRoot(cfg.TargetTag, cfg.Target),
	}
	s.Update(nil)
	return s
}

// Update enqueues a data delta and returns immediately. The delta is
// merged into the context only when its pipeline starts, after every
// earlier update has fully committed.
func (s *Session) Update(delta map[string]any) {
	if s.closed {
		return
	}
	s.queue = append(s.queue, delta)
	s.schedule()
}

// Root exposes the live render tree, mirroring the last committed
// descriptor tree.
func (s *Session) Root() *vdom.RenderNode {
	return s.root
}

// Data returns the session's data context.
func (s *Session) Data() expr.Context {
	return s.data
}

// Pending reports how many updates have not yet committed.
func (s *Session) Pending() int {
	return len(s.queue)
}

// Unmount closes the session: queued updates are dropped and later
// Update calls are ignored. The host tree is left as last committed.
func (s *Session) Unmount() {
	s.closed = true
	s.queue = nil
	s.exp, s.diff = nil, nil
	s.phase = phaseIdle
}

func (s *Session) schedule() {
	if s.scheduled || s.closed {
		return
	}
	s.scheduled = true
	s.clock.RequestFrame(s.frame)
}

// frame is the once-per-repaint callback: it runs pipeline slices until
// the budget is spent or the queue drains, then re-arms itself if work
// remains.
func (s *Session) frame(now time.Time) {
	s.scheduled = false
	if s.closed {
		return
	}
	deadline := now.Add(s.budget)
	for {
		if s.RunSlice(deadline) == Suspended {
			s.schedule()
			return
		}
		if len(s.queue) == 0 {
			return
		}
		// next queued update: start immediately if still within budget
		if s.clock.Now().After(deadline) {
			s.schedule()
			return
		}
	}
}

// RunSlice advances the pipeline one work unit at a time until the
// current update commits (Done) or the deadline passes between units
// (Suspended). Suspension only happens in the expand and diff phases;
// patching always runs to completion so no partially applied update is
// ever observable.
func (s *Session) RunSlice(deadline time.Time) SliceResult {
	if s.phase == phaseIdle {
		if len(s.queue) == 0 {
			return Done
		}
		s.begin()
		if s.phase == phaseIdle {
			// nothing to run for this entry
			return Done
		}
	}
	for {
		switch s.phase {
		case phaseExpand:
			if s.exp.Step() {
				s.diff = vdom.NewDiffer(s.root, s.exp.Root())
				s.exp = nil
				s.phase = phaseDiff
				continue
			}
		case phaseDiff:
			if s.diff.Step() {
				vdom.Apply(s.renderer, s.diff.Patches())
				s.diff = nil
				s.phase = phaseIdle
				s.queue = s.queue[1:]
				return Done
			}
		}
		if s.clock.Now().After(deadline) {
			return Suspended
		}
	}
}

// begin starts the pipeline for the queue head: merge its delta, build a
// fresh descriptor tree from the root routine, and seed the expansion.
// The view output is wrapped in a synthetic root matching the mount
// target, so content always lands as child patches of the target and the
// very first run is all AppendChild.
func (s *Session) begin() {
	s.data.Merge(s.queue[0])
	if s.view == nil {
		s.h.Errorf(report.Pos{}, "no view routine; dropping update")
		s.queue = s.queue[1:]
		return
	}
	wrapped := &vdom.Descriptor{
		Kind:     vdom.KindElement,
		Name:     s.root.Name,
		Attrs:    map[string]any{},
		Children: []*vdom.Descriptor{s.view(s.data)},
	}
	s.exp = vdom.NewExpansion(wrapped, s.reg, s.h)
	s.phase = phaseExpand
}
