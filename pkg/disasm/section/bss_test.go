package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func TestBssSizingFromUserSymbols(t *testing.T) {
	seg := segment.New("", nil, nil, 0x80100000, 0x80100020)
	a := seg.AddSymbol(0x80100000, symbol.SectionBss, false, nil)
	a.Name = "a"
	a.IsUserDeclared = true
	b := seg.AddSymbol(0x80100008, symbol.SectionBss, false, nil)
	b.Name = "b"
	b.IsUserDeclared = true

	s := &BssSection{VramStart: 0x80100000, TotalSize: 0x20}
	out := s.Analyze(seg)

	require.Len(t, out, 2)
	assert.Equal(t, uint32(0x80100000), out[0].Vram)
	assert.Equal(t, uint32(0x08), out[0].Space)
	assert.Equal(t, uint32(0x80100008), out[1].Vram)
	assert.Equal(t, uint32(0x18), out[1].Space)
}

func TestBssPointerPropagation(t *testing.T) {
	seg := segment.New("", nil, nil, 0x80100000, 0x80100100)
	seg.AddPointerInDataReference(0x80100040, 0x80000000)

	s := &BssSection{VramStart: 0x80100000, TotalSize: 0x100}
	out := s.Analyze(seg)

	require.Len(t, out, 2)
	assert.Equal(t, uint32(0x80100000), out[0].Vram)
	assert.Equal(t, uint32(0x40), out[0].Space)
	assert.True(t, out[0].Sym.IsAutogenerated)
	assert.Equal(t, uint32(0x80100040), out[1].Vram)
	assert.Equal(t, uint32(0xC0), out[1].Space)
	assert.True(t, out[1].Sym.IsAutogenerated)
}

func TestBssUserSizeCapsPrecedingVariable(t *testing.T) {
	seg := segment.New("", nil, nil, 0x80100000, 0x80100040)
	a := seg.AddSymbol(0x80100000, symbol.SectionBss, false, nil)
	size := uint32(0x10)
	a.Size = &size
	a.IsUserDeclared = true
	b := seg.AddSymbol(0x80100020, symbol.SectionBss, false, nil)
	b.IsUserDeclared = true

	s := &BssSection{VramStart: 0x80100000, TotalSize: 0x40}
	out := s.Analyze(seg)

	require.Len(t, out, 2)
	assert.Equal(t, uint32(0x10), out[0].Space, "capped by its own declared size, not by b")
	assert.Equal(t, uint32(0x20), out[1].Space)
}
