package section

import (
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// RodataSection owns a read-only data region: literals, jump tables and
// const-qualified globals.
type RodataSection struct {
	VromStart        uint32
	VramStart        uint32
	Bytes            []byte
	Endian           Endian
	SegmentVromStart *uint32
	OverlayCategory  string
	Filename         string
}

// Analyze mirrors DataSection.Analyze; rodata-specific typing (float,
// double, string, jump table fallback order) is the emit package's job
// per spec.md §4.7, since it renders one symbol's bytes rather than
// discovering symbols across the section.
func (s *RodataSection) Analyze(ctx *context.Context, seg *segment.SymbolsSegment, thisSegmentRef func(vram uint32) symbol.Ref) ([]DataWord, []*symbol.ContextSymbol) {
	start := s.VramStart
	end := s.VramStart + uint32(len(s.Bytes))

	checkAndCreateFirstSymbol(seg, start, symbol.SectionRodata)

	words := make([]DataWord, 0, len(s.Bytes)/4)
	for i := 0; i+4 <= len(s.Bytes); i += 4 {
		vram := start + uint32(i)
		raw := s.Endian.wordAt(s.Bytes[i : i+4])

		ref := ClassifyWord(ctx, s.OverlayCategory, symbol.SectionRodata, vram, raw)
		if ref.Kind == RefSymbol {
			if ref.Addend != 0 {
				seg.MarkDataReferenceWithAddend(vram)
			}
			ref.Symbol.ReferenceSymbols[thisSegmentRef(vram)] = true
		}
		if ref.Kind == RefLiteral {
			PropagatePointerCandidate(ctx, seg.AddPointerInDataReference, vram, raw)
		}

		words = append(words, DataWord{Vram: vram, Raw: raw, Ref: ref})
	}

	for _, sym := range seg.GetSymbolsRange(start, end) {
		sym.Section = symbol.SectionRodata
		sym.IsDefined = true
	}

	return words, fillSpanSizes(seg, start, end)
}

// IsRdata implements the supplemented .rdata classification feature
// (MipsSymbolRodata.isRdata): a rodata symbol referenced by more than one
// function, or referenced exactly once under a non-IDO compiler, is
// treated as genuine read-only data rather than a migrate-candidate
// constant.
func IsRdata(sym *symbol.ContextSymbol, compiler string) bool {
	refs := len(sym.ReferenceFunctions)
	if refs > 1 {
		return true
	}
	if refs == 1 && compiler != "IDO" {
		return true
	}
	return false
}
