package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianc/vex/internal/vex/memdom"
)

func TestApplyAttributesNeverUnset(t *testing.T) {
	r := memdom.NewRenderer()
	root := mountRoot(r)
	commit(r, root, el("div", map[string]any{"a": "1", "b": "2"}, txt("hi")))

	commit(r, root, el("div", map[string]any{"a": "3"}, txt("hi")))

	// keys absent from the new data survive, both in the render tree and
	// on the host node
	assert.Equal(t, "3", root.Attrs["a"])
	assert.Equal(t, "2", root.Attrs["b"])
	hostNode := root.Handle.(*memdom.Node)
	assert.Equal(t, "2", hostNode.Attrs["b"])
}

func TestApplyReplacePreservesNodeShell(t *testing.T) {
	r := memdom.NewRenderer()
	root := mountRoot(r)
	commit(r, root, el("div", nil, el("span", nil, txt("x"))))

	held := root.Children[0] // an indirect holder's view of the child
	oldHandle := held.Handle

	commit(r, root, el("div", nil, el("p", nil, txt("x"))))

	assert.Same(t, held, root.Children[0])
	assert.Equal(t, "p", held.Name)
	assert.NotSame(t, oldHandle, held.Handle)

	// the host parent now references the replacement
	hostRoot := root.Handle.(*memdom.Node)
	require.Len(t, hostRoot.Children, 1)
	assert.Equal(t, "p", hostRoot.Children[0].Tag)
}

func TestApplyRemovePopsTail(t *testing.T) {
	r := memdom.NewRenderer()
	root := mountRoot(r)
	commit(r, root, el("div", nil, txt("a"), txt("b"), txt("c")))

	commit(r, root, el("div", nil, txt("a")))

	require.Len(t, root.Children, 1)
	assert.Equal(t, "a", root.Children[0].Attrs[""])
	hostRoot := root.Handle.(*memdom.Node)
	require.Len(t, hostRoot.Children, 1)
	assert.Equal(t, "a", hostRoot.Children[0].Text)
}

func TestApplyRealizesWholeSubtree(t *testing.T) {
	r := memdom.NewRenderer()
	root := mountRoot(r)
	commit(r, root, el("div", nil,
		el("ul", map[string]any{"id": "l"},
			el("li", nil, txt("one")),
			el("li", nil, txt("two")),
		),
	))

	hostRoot := root.Handle.(*memdom.Node)
	assert.Equal(t, `<div><ul id="l"><li>one</li><li>two</li></ul></div>`, hostRoot.String())
}

func TestApplyUpdateTextTouchesHost(t *testing.T) {
	r := memdom.NewRenderer()
	root := mountRoot(r)
	commit(r, root, el("div", nil, txt("old")))
	before := len(r.Ops)

	commit(r, root, el("div", nil, txt("new")))

	assert.Equal(t, []string{"setText(new)"}, r.Ops[before:])
	hostRoot := root.Handle.(*memdom.Node)
	assert.Equal(t, "new", hostRoot.Children[0].Text)
}
