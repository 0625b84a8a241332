package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func TestFillDefaultBannedSymbols(t *testing.T) {
	c := New()
	c.FillDefaultBannedSymbols()

	assert.True(t, c.IsBanned(0x7FFFFFF0))
	assert.False(t, c.IsBanned(0x80010000))
}

func TestOverlayIsolation(t *testing.T) {
	c := New()
	a := c.AddOverlaySegment("A", 0x1000, 0x2000, 0x80200000, 0x80201000)
	b := c.AddOverlaySegment("B", 0x1000, 0x2000, 0x80200000, 0x80201000)

	a.AddSymbol(0x80200000, symbol.SectionData, false, nil).Name = "a_sym"
	b.AddSymbol(0x80200000, symbol.SectionData, false, nil).Name = "b_sym"

	symA, ok := a.GetSymbol(0x80200000, false, true)
	require.True(t, ok)
	symB, ok := b.GetSymbol(0x80200000, false, true)
	require.True(t, ok)

	assert.Equal(t, "a_sym", symA.Name)
	assert.Equal(t, "b_sym", symB.Name)
}

func TestInitGOTTableMarksGlobalsOnly(t *testing.T) {
	c := New()
	c.ChangeGlobalSegmentRanges(ptr(uint32(0)), ptr(uint32(0x2000)), 0x80000000, 0x80002000)

	c.InitGOTTable(0x80001000, []uint32{0x80000100}, []uint32{0x80000200, 0x80000204})

	sym, ok := c.GlobalSegment().GetSymbol(0x80000200, false, true)
	require.True(t, ok)
	assert.True(t, sym.IsGotGlobal)
	assert.True(t, sym.IsUserDeclared)

	_, ok = c.GlobalSegment().GetSymbol(0x80000100, false, true)
	assert.False(t, ok, "locals never get a symbol")
}

func ptr[T any](v T) *T { return &v }
