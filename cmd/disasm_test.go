package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spimgo/spimgo/internal/loader"
)

func TestSplitsFromRowsDerivesSizeFromNextOffset(t *testing.T) {
	rows := []loader.SplitRow{
		{Offset: 0x1000, Vram: 0x80000000, Filename: "a.s"},
		{Offset: 0x1040, Vram: 0x80000040, Filename: "b.s"},
	}

	splits := splitsFromRows(rows)

	assert.Len(t, splits, 2)
	assert.Equal(t, uint32(0x40), splits[0].Size)
	assert.Equal(t, uint32(0x10000), splits[1].Size, "last split falls back to a default size")
}

func TestSplitsVramRangeCoversEverySplitPlusSlack(t *testing.T) {
	rows := []loader.SplitRow{
		{Offset: 0x1000, Vram: 0x80000100},
		{Offset: 0x2000, Vram: 0x80000020},
		{Offset: 0x3000, Vram: 0x80000400},
	}

	lo, hi := splitsVramRange(rows)

	assert.Equal(t, uint32(0x80000020), lo)
	assert.Equal(t, uint32(0x80000400+0x10000), hi)
}

func TestDisasmCommandRegistersExpectedFlags(t *testing.T) {
	for _, name := range []string{
		"splits", "out", "compiler", "endian", "pic", "verbose", "save-context", "color",
		"functions", "variables", "constants", "overlays", "got", "libultra-syms", "hardware-regs",
	} {
		assert.NotNil(t, disasmCmd.Flags().Lookup(name), "missing --%s flag", name)
	}
	assert.Equal(t, "asm", disasmCmd.Flags().Lookup("out").DefValue)
}
