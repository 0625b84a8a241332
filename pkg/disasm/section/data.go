package section

import (
	"encoding/binary"

	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// Endian selects the byte order raw section bytes are read in.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) wordAt(b []byte) uint32 {
	if e == LittleEndian {
		return binary.LittleEndian.Uint32(b)
	}
	return binary.BigEndian.Uint32(b)
}

// checkAndCreateFirstSymbol is the shared first-symbol guarantee every
// section type applies before iterating: every byte of the section must
// fall under some symbol's span.
func checkAndCreateFirstSymbol(seg *segment.SymbolsSegment, start uint32, sectionType symbol.Section) {
	if _, ok := seg.GetSymbol(start, false, true); !ok {
		sym := seg.AddSymbol(start, sectionType, true, nil)
		sym.IsDefined = true
	}
}

// DataWord is one classified word of a DataSection or RodataSection,
// produced for the emit package to render.
type DataWord struct {
	Vram uint32
	Raw  uint32
	Ref  WordRef
}

// DataSection owns a contiguous, writable data region: .data-class bytes
// that aren't known to be read-only.
type DataSection struct {
	VromStart        uint32
	VramStart        uint32
	Bytes            []byte
	Endian           Endian
	SegmentVromStart *uint32
	OverlayCategory  string
	Filename         string
}

// Analyze walks every word, classifying it per spec.md §4.5 steps 1-2 and
// mutating seg with discovered pointer candidates, then returns one entry
// per ContextSymbol covering the section, each with its (possibly
// inferred) size filled in.
func (s *DataSection) Analyze(ctx *context.Context, seg *segment.SymbolsSegment) ([]DataWord, []*symbol.ContextSymbol) {
	start := s.VramStart
	end := s.VramStart + uint32(len(s.Bytes))

	checkAndCreateFirstSymbol(seg, start, symbol.SectionData)

	words := make([]DataWord, 0, len(s.Bytes)/4)
	for i := 0; i+4 <= len(s.Bytes); i += 4 {
		vram := start + uint32(i)
		raw := s.Endian.wordAt(s.Bytes[i : i+4])

		ref := ClassifyWord(ctx, s.OverlayCategory, symbol.SectionData, vram, raw)
		if ref.Kind == RefSymbol && ref.Addend != 0 {
			seg.MarkDataReferenceWithAddend(vram)
		}
		if ref.Kind == RefLiteral {
			PropagatePointerCandidate(ctx, seg.AddPointerInDataReference, vram, raw)
		}

		words = append(words, DataWord{Vram: vram, Raw: raw, Ref: ref})
	}

	for _, sym := range seg.GetSymbolsRange(start, end) {
		sym.Section = symbol.SectionData
		sym.IsDefined = true
	}

	return words, fillSpanSizes(seg, start, end)
}

// fillSpanSizes walks every symbol in [start, end) ascending and, for any
// symbol whose size is still unset, infers it as the gap to the next
// symbol (or the end of the section), without marking it user-declared.
func fillSpanSizes(seg *segment.SymbolsSegment, start, end uint32) []*symbol.ContextSymbol {
	syms := seg.GetSymbolsRange(start, end)
	for i, sym := range syms {
		if sym.Size != nil {
			continue
		}
		next := end
		if i+1 < len(syms) {
			next = syms[i+1].Vram
		}
		size := next - sym.Vram
		sym.Size = &size
	}
	return syms
}
