package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	disasmcontext "github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func TestDataSectionSymbolAddendReference(t *testing.T) {
	ctx := disasmcontext.New()
	ctx.ChangeGlobalSegmentRanges(nil, nil, 0x80010000, 0x80020000)
	foo := ctx.GlobalSegment().AddSymbol(0x80010000, symbol.SectionText, false, nil)
	foo.Name = "foo"
	foo.IsUserDeclared = true
	size := uint32(0x40)
	foo.Size = &size

	bytes := make([]byte, 4)
	bytes[0], bytes[1], bytes[2], bytes[3] = 0x80, 0x01, 0x00, 0x10

	s := &DataSection{VramStart: 0x80018000, Bytes: bytes, Endian: BigEndian}
	words, _ := s.Analyze(ctx, ctx.GlobalSegment())

	require.Len(t, words, 1)
	assert.Equal(t, RefSymbol, words[0].Ref.Kind)
	assert.Equal(t, "foo", words[0].Ref.Symbol.Name)
	assert.Equal(t, uint32(0x10), words[0].Ref.Addend)
}

func TestDataSectionBannedWordStaysLiteral(t *testing.T) {
	ctx := disasmcontext.New()
	ctx.FillDefaultBannedSymbols()
	ctx.ChangeGlobalSegmentRanges(nil, nil, 0x7FFF0000, 0x80020000)

	bytes := []byte{0x7F, 0xFF, 0xFF, 0xF0}
	s := &DataSection{VramStart: 0x80018000, Bytes: bytes, Endian: BigEndian}
	words, _ := s.Analyze(ctx, ctx.GlobalSegment())

	require.Len(t, words, 1)
	assert.Equal(t, RefLiteral, words[0].Ref.Kind)

	_, ok := ctx.GlobalSegment().GetSymbol(0x7FFFFFF0, false, true)
	assert.False(t, ok, "banned addresses never become symbols")
}

func TestTextSectionFunctionAndBranchDiscovery(t *testing.T) {
	ctx := disasmcontext.New()
	ctx.ChangeGlobalSegmentRanges(nil, nil, 0x80000000, 0x80001000)

	// jal 0x80000100 ; beq $zero,$zero,+0
	bytes := make([]byte, 8)
	jal := uint32(3)<<26 | ((uint32(0x80000100) >> 2) & 0x03FFFFFF)
	putBE(bytes[0:4], jal)
	beq := uint32(4) << 26
	putBE(bytes[4:8], beq)

	s := &TextSection{VramStart: 0x80000000, Bytes: bytes, Endian: BigEndian}
	s.Analyze(ctx, ctx.GlobalSegment(), nil)

	fn, ok := ctx.GlobalSegment().GetSymbol(0x80000100, false, true)
	require.True(t, ok)
	assert.Equal(t, symbol.Function, fn.Type)

	// The beq at 0x80000004 targets its delay slot + 0, i.e. 0x80000008.
	lbl, ok := ctx.GlobalSegment().GetSymbol(0x80000008, false, true)
	require.True(t, ok)
	assert.Equal(t, symbol.BranchLabel, lbl.Type)
}

func putBE(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
