// Package section implements the four section analyzers from spec.md §4.4-
// §4.6: BssSection, DataSection, RodataSection and TextSection. Each owns
// its placement and byte slice (or, for bss, just a size) and mutates a
// SymbolsSegment as it discovers symbols.
package section

import (
	"sort"

	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// BssSection reserves zero-initialized memory; it owns a size, not bytes.
// This is spec.md's "illustrative, hardest single file" component, ported
// directly from the algorithm in MipsSectionBss.py/MipsBss.py.
type BssSection struct {
	VramStart        uint32
	TotalSize        uint32
	SegmentVromStart *uint32
	OverlayCategory  string
	Filename         string
}

// BssSymbol is one materialized bss reservation: a vram and an inferred
// space, backed by the ContextSymbol the segment already owns.
type BssSymbol struct {
	Vram  uint32
	Space uint32
	Sym   *symbol.ContextSymbol
}

// Analyze implements spec.md §4.4's four-step algorithm.
func (s *BssSection) Analyze(seg *segment.SymbolsSegment) []*BssSymbol {
	start := s.VramStart
	end := s.VramStart + s.TotalSize

	// Step 1: ensure a symbol exists at the very start of the section.
	if _, ok := seg.GetSymbol(start, false, true); !ok {
		sym := seg.AddSymbol(start, symbol.SectionBss, true, nil)
		sym.IsDefined = true
	}

	// Step 2: drain pending pointer candidates landing in range; a
	// candidate already covered by some (possibly larger) existing symbol
	// doesn't need a new one.
	for _, pending := range seg.GetAndPopPointerInDataReferencesRange(start, end) {
		ptr := pending.Key
		if _, ok := seg.GetSymbol(ptr, true, true); !ok {
			seg.AddSymbol(ptr, symbol.SectionBss, true, nil)
		}
	}

	// Step 3: walk every symbol in range, marking it Bss/defined, and
	// collect both its own offset and, when its size is user-known, the
	// synthetic boundary offset that caps whatever precedes it.
	hasSymbolAtOffset := make(map[uint32]bool)
	offsetSet := make(map[uint32]bool)

	for _, sym := range seg.GetSymbolsRange(start, end) {
		sym.Section = symbol.SectionBss
		sym.IsDefined = true

		offset := sym.Vram - start
		offsetSet[offset] = true
		hasSymbolAtOffset[offset] = true

		if sym.Size != nil {
			boundary := sym.Vram + *sym.Size - start
			offsetSet[boundary] = true
		}
	}

	offsets := make([]uint32, 0, len(offsetSet))
	for o := range offsetSet {
		offsets = append(offsets, o)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	// Step 4: one SymbolBss per real-symbol offset; space runs to the next
	// offset (real or synthetic boundary) or to the end of the section.
	var out []*BssSymbol
	for i, offset := range offsets {
		if !hasSymbolAtOffset[offset] {
			continue
		}

		space := s.TotalSize - offset
		if i+1 < len(offsets) {
			if next := offsets[i+1] - offset; next < space {
				space = next
			}
		}

		sym, _ := seg.GetSymbol(start+offset, false, true)
		out = append(out, &BssSymbol{Vram: start + offset, Space: space, Sym: sym})
	}

	return out
}
