package got

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func TestInitTablesOnlyBindsGlobals(t *testing.T) {
	table := New()
	bound := map[uint32]bool{}

	table.InitTables(0x80800000,
		[]uint32{0x80800010, 0x80800014},
		[]uint32{0x80800020, 0x80800024},
		func(address uint32) *symbol.ContextSymbol {
			bound[address] = true
			return &symbol.ContextSymbol{Vram: address}
		})

	assert.Equal(t, uint32(0x80800000), table.PltGot)
	assert.Equal(t, []uint32{0x80800010, 0x80800014}, table.Locals)
	assert.Len(t, bound, 2, "bind must only be called for global entries")
	assert.False(t, bound[0x80800010], "locals never get a symbol")

	entry, ok := table.GetGotSymEntry(0x80800024)
	require.True(t, ok)
	assert.Equal(t, uint32(0x80800024), entry.Symbol.Vram)

	_, ok = table.GetGotSymEntry(0x80800010)
	assert.False(t, ok, "locals are not in the globals table")
}
