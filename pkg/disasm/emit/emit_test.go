package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spimgo/spimgo/internal/config"
	disasmcontext "github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/section"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func TestRenderFloatLiteral(t *testing.T) {
	cfg := config.Default()
	ctx := disasmcontext.New()

	sym := symbol.New(0x80010000)
	sym.Type = symbol.Float
	sym.Name = "flt"

	words := []section.DataWord{{Vram: 0x80010000, Raw: 0x3F800000, Ref: section.WordRef{Kind: section.RefLiteral}}}

	out := RenderDataSymbol(cfg, ctx, sym, words, false)
	assert.Contains(t, out, ".float 1")
}

func TestRenderFloatRejectsNaN(t *testing.T) {
	cfg := config.Default()
	ctx := disasmcontext.New()

	sym := symbol.New(0x80010000)
	sym.Type = symbol.Float

	words := []section.DataWord{{Vram: 0x80010000, Raw: 0x7FC00000, Ref: section.WordRef{Kind: section.RefLiteral}}}

	out := RenderDataSymbol(cfg, ctx, sym, words, false)
	assert.Contains(t, out, ".word 0x7FC00000")
	assert.NotContains(t, out, ".float")
}

func TestRenderWordWithAddend(t *testing.T) {
	cfg := config.Default()
	ctx := disasmcontext.New()

	foo := symbol.New(0x80010000)
	foo.Name = "foo"
	size := uint32(0x40)
	foo.Size = &size

	sym := symbol.New(0x80020000)
	sym.Type = symbol.Word

	words := []section.DataWord{{
		Vram: 0x80020000, Raw: 0x80010010,
		Ref: section.WordRef{Kind: section.RefSymbol, Symbol: foo, Addend: 0x10},
	}}

	out := RenderDataSymbol(cfg, ctx, sym, words, false)
	assert.Contains(t, out, ".word foo + 0x10")
}

func TestRenderWordSplitsWhenSubwordSymbolExists(t *testing.T) {
	cfg := config.Default()
	ctx := disasmcontext.New()
	seg := ctx.GlobalSegment()

	sym := seg.AddSymbol(0x80000100, symbol.SectionRodata, false, nil)
	sym.Type = symbol.Word
	sym.Name = "tbl"

	sub := seg.AddSymbol(0x80000102, symbol.SectionRodata, false, nil)
	sub.Name = "tbl_2"

	words := []section.DataWord{{Vram: 0x80000100, Raw: 0x00010002, Ref: section.WordRef{Kind: section.RefLiteral}}}

	out := RenderDataSymbol(cfg, ctx, sym, words, false)
	assert.Contains(t, out, ".short 0x0001, 0x0002")
	assert.NotContains(t, out, ".word")
}

func TestRenderFloatSplitsIntoBytesWhenSubwordSymbolExists(t *testing.T) {
	cfg := config.Default()
	ctx := disasmcontext.New()
	seg := ctx.GlobalSegment()

	sym := seg.AddSymbol(0x80000100, symbol.SectionRodata, false, nil)
	sym.Type = symbol.Float
	sym.Name = "flt"

	sub := seg.AddSymbol(0x80000101, symbol.SectionRodata, false, nil)
	sub.Name = "flt_1"

	words := []section.DataWord{{Vram: 0x80000100, Raw: 0x3F800000, Ref: section.WordRef{Kind: section.RefLiteral}}}

	out := RenderDataSymbol(cfg, ctx, sym, words, false)
	assert.Contains(t, out, ".byte 0x3F, 0x80, 0x00, 0x00")
	assert.NotContains(t, out, ".float")
}

func TestRenderBssSpace(t *testing.T) {
	cfg := config.Default()
	sym := symbol.New(0x80100000)
	sym.Name = "a"
	sym.Section = symbol.SectionBss

	out := RenderBss(cfg, &section.BssSymbol{Vram: 0x80100000, Space: 0x08, Sym: sym})
	require.True(t, strings.Contains(out, ".space 0x08"))
}
