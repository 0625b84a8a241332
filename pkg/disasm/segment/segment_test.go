package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func newTestSegment() *SymbolsSegment {
	return New("", nil, nil, 0x80000000, 0x80100000)
}

func TestNewPanicsOnInvertedRange(t *testing.T) {
	assert.Panics(t, func() {
		New("", nil, nil, 0x80001000, 0x80000000)
	})
}

func TestAddSymbolIdempotentUpgradesSectionAndVrom(t *testing.T) {
	s := newTestSegment()

	first := s.AddSymbol(0x80001000, symbol.SectionUnknown, false, nil)
	assert.Equal(t, symbol.SectionUnknown, first.Section)

	vrom := uint32(0x1000)
	second := s.AddSymbol(0x80001000, symbol.SectionText, false, &vrom)

	assert.Same(t, first, second)
	assert.Equal(t, symbol.SectionText, second.Section)
	require.NotNil(t, second.Vrom)
	assert.Equal(t, vrom, *second.Vrom)
}

func TestAddFunctionDoesNotOverrideJumpTableLabel(t *testing.T) {
	s := newTestSegment()

	s.AddJumpTableLabel(0x80001000, false, nil)
	sym := s.AddFunction(0x80001000, false, nil)

	assert.Equal(t, symbol.JumpTableLabel, sym.Type)
}

func TestAddBranchLabelDoesNotOverrideFunction(t *testing.T) {
	s := newTestSegment()

	s.AddFunction(0x80001000, false, nil)
	sym := s.AddBranchLabel(0x80001000, false, nil)

	assert.Equal(t, symbol.Function, sym.Type)
}

func TestGetSymbolExactMatch(t *testing.T) {
	s := newTestSegment()
	s.AddFunction(0x80001000, false, nil)

	sym, ok := s.GetSymbol(0x80001000, false, true)
	require.True(t, ok)
	assert.Equal(t, uint32(0x80001000), sym.Vram)

	_, ok = s.GetSymbol(0x80001004, false, true)
	assert.False(t, ok)
}

func TestGetSymbolPlusOffsetWithinSize(t *testing.T) {
	s := newTestSegment()
	sym := s.AddFunction(0x80001000, false, nil)
	size := uint32(0x40)
	sym.Size = &size

	found, ok := s.GetSymbol(0x80001010, true, true)
	require.True(t, ok)
	assert.Equal(t, sym, found)

	_, ok = s.GetSymbol(0x80001040, true, true)
	assert.False(t, ok, "end is exclusive")
}

func TestGetSymbolPlusOffsetUnsetSizeReturnsNilWithUpperLimitCheck(t *testing.T) {
	s := newTestSegment()
	s.AddFunction(0x80001000, false, nil)

	_, ok := s.GetSymbol(0x80001010, true, true)
	assert.False(t, ok, "Open Question decision #3: unset size + checkUpperLimit => no match")

	found, ok := s.GetSymbol(0x80001010, true, false)
	require.True(t, ok)
	assert.Equal(t, uint32(0x80001000), found.Vram)
}

func TestPointerInDataReferenceRangeIsEndExclusive(t *testing.T) {
	s := newTestSegment()
	s.AddPointerInDataReference(0x80001000, 0x80002000)
	s.AddPointerInDataReference(0x80001010, 0x80002004)
	s.AddPointerInDataReference(0x80001020, 0x80002008)

	popped := s.GetAndPopPointerInDataReferencesRange(0x80001000, 0x80001020)
	require.Len(t, popped, 2)
	assert.Equal(t, uint32(0x80001000), popped[0].Key)
	assert.Equal(t, uint32(0x80001010), popped[1].Key)

	_, ok := s.PopPointerInDataReference(0x80001020)
	assert.True(t, ok)
}

func TestFillLibultraSymsAndHardwareRegs(t *testing.T) {
	s := newTestSegment()
	s.vramStart, s.vramEnd = 0, 0xFFFFFFFF
	s.FillLibultraSyms()
	s.FillHardwareRegs(false)

	sym, ok := s.GetSymbol(0x80000300, false, true)
	require.True(t, ok)
	assert.Equal(t, "osTvType", sym.Name)
	assert.True(t, sym.IsUserDeclared)

	placeholder, ok := s.GetSymbol(0xA4600006, false, true)
	require.True(t, ok)
	assert.Equal(t, "D_A4600006", placeholder.Name)
}
