package parse

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianc/vex/internal/vex/ast"
	"github.com/kilianc/vex/internal/vex/lex"
	"github.com/kilianc/vex/internal/vex/report"
)

func lexOK(t *testing.T, src string) []ast.Token {
	t.Helper()
	h := report.NewHandler(nil)
	toks := lex.Lex(src, h)
	require.Empty(t, h.Diagnostics())
	return toks
}

func TestParseNesting(t *testing.T) {
	root, err := Parse(lexOK(t, `<div><span/><p>hi</p></div>`))
	require.NoError(t, err)

	assert.Equal(t, "div", root.Name)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "span", root.Children[0].Name)

	p := root.Children[1]
	assert.Equal(t, "p", p.Name)
	require.Len(t, p.Children, 1)
	assert.Equal(t, "text", p.Children[0].Name)
	assert.Equal(t, `"hi"`, p.Children[0].Attrs[""])
}

func TestParseSelfClosingLeaf(t *testing.T) {
	root, err := Parse(lexOK(t, `<br/>`))
	require.NoError(t, err)
	assert.Equal(t, "br", root.Name)
	assert.Empty(t, root.Children)
}

func TestParseDuplicateAttributeLastWins(t *testing.T) {
	root, err := Parse(lexOK(t, `<a x="1" x="2"/>`))
	require.NoError(t, err)
	assert.Equal(t, `"2"`, root.Attrs["x"])
}

func TestParseEmptyTokenStream(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
}

func TestParseMismatchedTags(t *testing.T) {
	h := report.NewHandler(nil)
	toks := lex.Lex(`<div><span></div>`, h)
	_, err := Parse(toks)
	require.Error(t, err)

	var perr *ast.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "div")
	// the chain bottoms out at the unclosed <span>
	assert.NotNil(t, perr.Cause)
}

func TestParseDanglingClose(t *testing.T) {
	_, err := Parse(lexOK(t, `<a></a></b>`))
	require.Error(t, err)
}

func TestParseDeepNesting(t *testing.T) {
	// a shape that is punishing without the memo chart
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("<div><span/>")
	}
	b.WriteString("<hr/>")
	for i := 0; i < 12; i++ {
		b.WriteString("<span/></div>")
	}
	root, err := Parse(lexOK(t, b.String()))
	require.NoError(t, err)
	assert.Equal(t, "div", root.Name)
	require.Len(t, root.Children, 3)
}

// serialize reconstructs template text from an AST, used to check the
// lex→parse round trip up to whitespace-as-text normalization.
func serialize(n *ast.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *ast.Node) {
	if n.Name == "text" {
		v := n.Attrs[""]
		if strings.HasPrefix(v, `"`) {
			raw, _ := strconv.Unquote(v)
			b.WriteString(raw)
		} else {
			b.WriteString("{" + v + "}")
		}
		return
	}
	b.WriteString("<" + n.Name)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := n.Attrs[k]
		if strings.HasPrefix(v, `"`) {
			raw, _ := strconv.Unquote(v)
			b.WriteString(" " + k + `="` + raw + `"`)
		} else {
			b.WriteString(" " + k + "={" + v + "}")
		}
	}
	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</" + n.Name + ">")
}

func TestParseRoundTrip(t *testing.T) {
	templates := []string{
		`<div class="a"><p>hi {msg}</p><br/></div>`,
		`<Widget title={x + 1}/>`,
		`<ul><li>one</li><li>two</li></ul>`,
		`<section id="s"><header><h1>{title}</h1></header></section>`,
	}
	for _, src := range templates {
		first, err := Parse(lexOK(t, src))
		require.NoError(t, err, "template %q", src)

		second, err := Parse(lexOK(t, serialize(first)))
		require.NoError(t, err, "reserialized %q", serialize(first))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip mismatch for %q (-first +second):\n%s", src, diff)
		}
	}
}
