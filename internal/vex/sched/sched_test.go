package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianc/vex/internal/vex/compile"
	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/memdom"
	"github.com/kilianc/vex/internal/vex/vdom"
)

type fixture struct {
	session  *Session
	renderer *memdom.Renderer
	clock    *memdom.Clock
	target   *memdom.Node
	runs     *int
}

func mountTemplate(t *testing.T, tmpl string, data map[string]any, budget time.Duration) *fixture {
	t.Helper()
	view, err := compile.Compile(tmpl, nil)
	require.NoError(t, err)

	runs := 0
	counting := func(ctx expr.Context) *vdom.Descriptor {
		runs++
		return view(ctx)
	}

	renderer := memdom.NewRenderer()
	clock := memdom.NewClock(time.Unix(0, 0))
	target := renderer.CreateElement("body").(*memdom.Node)
	session := Mount(Config{
		View:        counting,
		Registry:    vdom.NewRegistry(),
		Data:        data,
		Renderer:    renderer,
		Clock:       clock,
		Target:      target,
		TargetTag:   "body",
		FrameBudget: budget,
	})
	return &fixture{session: session, renderer: renderer, clock: clock, target: target, runs: &runs}
}

func TestMountRendersViaAppend(t *testing.T) {
	f := mountTemplate(t, `<div class="a">hi</div>`, nil, 0)

	frames := f.clock.Run(16*time.Millisecond, 100)
	assert.Equal(t, 1, frames)
	assert.Equal(t, `<body><div class="a">hi</div></body>`, f.target.String())
	assert.Contains(t, f.renderer.Ops, "appendChild(<div>)")
}

func TestQueueOrderingNeverCoalesces(t *testing.T) {
	f := mountTemplate(t, `<div>{x}</div>`, map[string]any{"x": 0}, 0)
	f.session.Update(map[string]any{"x": 1})
	f.session.Update(map[string]any{"x": 2})
	assert.Equal(t, 3, f.session.Pending())

	f.clock.Run(16*time.Millisecond, 100)

	// initial render plus one full pipeline per delta, in order
	assert.Equal(t, 3, *f.runs)
	assert.Equal(t, 2, f.session.Data()["x"])
	assert.Equal(t, `<body><div>2</div></body>`, f.target.String())

	var texts []string
	for _, op := range f.renderer.Ops {
		if op == "setText(1)" || op == "setText(2)" {
			texts = append(texts, op)
		}
	}
	assert.Equal(t, []string{"setText(1)", "setText(2)"}, texts)
}

func TestUpdateAfterIdleSchedulesAgain(t *testing.T) {
	f := mountTemplate(t, `<div>{x}</div>`, map[string]any{"x": "a"}, 0)
	f.clock.Run(16*time.Millisecond, 100)
	assert.Equal(t, `<body><div>a</div></body>`, f.target.String())

	f.session.Update(map[string]any{"x": "b"})
	assert.False(t, f.clock.Idle())
	f.clock.Run(16*time.Millisecond, 100)
	assert.Equal(t, `<body><div>b</div></body>`, f.target.String())
}

func TestFrameBudgetSuspendsAndResumes(t *testing.T) {
	f := mountTemplate(t, `<div><p>a</p><p>b</p><p>c</p><p>d</p></div>`, nil, time.Millisecond)
	// every Now call costs a millisecond, so each frame fits little work
	f.clock.AutoAdvance = time.Millisecond

	frames := f.clock.Run(16*time.Millisecond, 1000)
	assert.Greater(t, frames, 1, "expansion+diff should have spanned frames")
	assert.Equal(t, `<body><div><p>a</p><p>b</p><p>c</p><p>d</p></div></body>`, f.target.String())
	assert.Equal(t, 0, f.session.Pending())
}

func TestPatchPhaseIsAtomicPerFrame(t *testing.T) {
	f := mountTemplate(t, `<div><p>a</p><p>b</p></div>`, nil, time.Millisecond)
	f.clock.AutoAdvance = time.Millisecond

	// until the pipeline commits, no host mutation may be visible
	for !f.clock.Idle() {
		before := len(f.renderer.Ops)
		f.clock.Tick(16 * time.Millisecond)
		if len(f.renderer.Ops) != before {
			// the frame that mutated the host must have finished the job
			assert.Equal(t, 0, f.session.Pending())
		}
	}
	assert.Equal(t, `<body><div><p>a</p><p>b</p></div></body>`, f.target.String())
}

func TestUnmountDropsQueue(t *testing.T) {
	f := mountTemplate(t, `<div>{x}</div>`, map[string]any{"x": "a"}, 0)
	f.clock.Run(16*time.Millisecond, 100)

	f.session.Unmount()
	f.session.Update(map[string]any{"x": "b"})
	f.clock.Run(16*time.Millisecond, 100)

	assert.Equal(t, `<body><div>a</div></body>`, f.target.String())
	assert.Equal(t, 0, f.session.Pending())
}

func TestRunSliceDirectly(t *testing.T) {
	f := mountTemplate(t, `<div>hi</div>`, nil, 0)
	require.Equal(t, 1, f.session.Pending())

	// a generous deadline lets one slice finish the whole pipeline
	res := f.session.RunSlice(f.clock.Now().Add(time.Hour))
	assert.Equal(t, Done, res)
	assert.Equal(t, 0, f.session.Pending())
	assert.Equal(t, `<body><div>hi</div></body>`, f.target.String())
}
