package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianc/vex/internal/vex/expr"
	"github.com/kilianc/vex/internal/vex/report"
	"github.com/kilianc/vex/internal/vex/vdom"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, vdom.KindText, Classify("text"))
	assert.Equal(t, vdom.KindElement, Classify("div"))
	assert.Equal(t, vdom.KindElement, Classify("h1"))
	assert.Equal(t, vdom.KindComponent, Classify("Widget"))
	assert.Equal(t, vdom.KindComponent, Classify("X"))
}

func TestCompileScenario(t *testing.T) {
	view, err := Compile(`<div class={cls}>{msg}</div>`, nil)
	require.NoError(t, err)

	d := view(expr.Context{"cls": "a", "msg": "hi"})
	assert.Equal(t, vdom.KindElement, d.Kind)
	assert.Equal(t, "div", d.Name)
	assert.Equal(t, map[string]any{"class": "a"}, d.Attrs)
	require.Len(t, d.Children, 1)

	text := d.Children[0]
	assert.Equal(t, vdom.KindText, text.Kind)
	assert.Equal(t, "hi", text.Attrs[""])
}

func TestCompileLiteralAttributesBypassScoping(t *testing.T) {
	view, err := Compile(`<a href="plain" title={name}/>`, nil)
	require.NoError(t, err)
	d := view(expr.Context{"name": "t", "plain": "should not matter"})
	assert.Equal(t, "plain", d.Attrs["href"])
	assert.Equal(t, "t", d.Attrs["title"])
}

func TestCompileAllocatesFreshTrees(t *testing.T) {
	view, err := Compile(`<div><p>hi</p></div>`, nil)
	require.NoError(t, err)
	ctx := expr.Context{}
	first, second := view(ctx), view(ctx)
	assert.NotSame(t, first, second)
	assert.NotSame(t, first.Children[0], second.Children[0])
}

func TestCompileComponentKind(t *testing.T) {
	view, err := Compile(`<Card title="hi"/>`, nil)
	require.NoError(t, err)
	d := view(expr.Context{})
	assert.Equal(t, vdom.KindComponent, d.Kind)
	assert.Equal(t, "Card", d.Name)
	assert.Equal(t, "hi", d.Attrs["title"])
}

func TestCompileParseFailure(t *testing.T) {
	_, err := Compile(`<div><span></div>`, nil)
	require.Error(t, err)
}

func TestCompileEvalFailureIsAdvisory(t *testing.T) {
	h := report.NewHandler(nil)
	view, err := Compile(`<p>{count +}</p>`, h)
	require.NoError(t, err)

	d := view(expr.Context{"count": 1})
	assert.Nil(t, d.Children[0].Attrs[""])
	assert.NotEmpty(t, h.Diagnostics())
}
