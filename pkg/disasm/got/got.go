// Package got implements GlobalOffsetTable, the PIC indirection vector
// described in spec.md §4.8: a PLT base, a locals table, and a globals
// table whose entries bind to ContextSymbols.
package got

import "github.com/spimgo/spimgo/pkg/disasm/symbol"

// Entry binds one global GOT slot to the ContextSymbol created for it.
type Entry struct {
	Address uint32
	Symbol  *symbol.ContextSymbol
}

// Table is the GlobalOffsetTable: a PLT/GOT base pointer, a locals address
// list (no symbols are created for locals, only globals per spec.md §4.8),
// and the bound globals table.
type Table struct {
	PltGot  uint32
	Locals  []uint32
	Globals []Entry
}

func New() *Table {
	return &Table{}
}

// InitTables rebinds each global entry to a freshly-added ContextSymbol via
// bind, matching Context.initGotTable/GlobalOffsetTable.initTables: only
// the globals table produces symbols, each marked isUserDeclared and
// isGotGlobal by the caller-supplied bind function (which lives in
// pkg/disasm/context, since only Context knows which segment to add the
// symbol to).
func (t *Table) InitTables(pltGot uint32, locals, globalAddrs []uint32, bind func(address uint32) *symbol.ContextSymbol) {
	t.PltGot = pltGot
	t.Locals = append([]uint32(nil), locals...)

	t.Globals = make([]Entry, 0, len(globalAddrs))
	for _, address := range globalAddrs {
		t.Globals = append(t.Globals, Entry{Address: address, Symbol: bind(address)})
	}
}

// GetGotSymEntry returns the global GOT entry whose address equals addr.
func (t *Table) GetGotSymEntry(address uint32) (Entry, bool) {
	for _, e := range t.Globals {
		if e.Address == address {
			return e, true
		}
	}
	return Entry{}, false
}
