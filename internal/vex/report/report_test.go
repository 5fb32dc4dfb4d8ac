package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosAt(t *testing.T) {
	src := "abc\ndef\nghi"
	assert.Equal(t, Pos{Offset: 0, Line: 1, Col: 1}, PosAt(src, 0))
	assert.Equal(t, Pos{Offset: 5, Line: 2, Col: 2}, PosAt(src, 5))
	assert.Equal(t, Pos{Offset: 8, Line: 3, Col: 1}, PosAt(src, 8))
}

func TestPosAtCountsDisplayWidth(t *testing.T) {
	// three text columns, more than three bytes
	pos := PosAt("héé!", 5)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 4, pos.Col)
}

func TestHandlerRecords(t *testing.T) {
	h := NewHandler(nil)
	require.NoError(t, h.Errorf(Pos{Line: 1, Col: 2}, "bad %s", "tag"))
	require.Len(t, h.Diagnostics(), 1)
	assert.Equal(t, "1:2: bad tag", h.Diagnostics()[0].Error())
	assert.Error(t, h.Err())
}

func TestStrictHandlerFails(t *testing.T) {
	var out strings.Builder
	h := NewStrictHandler(&out)
	err := h.Errorf(Pos{Line: 3, Col: 1}, "oops")
	require.Error(t, err)
	assert.Contains(t, out.String(), "3:1: oops")
}
