// Package segment implements SymbolsSegment, the address-range-owning
// symbol table that Context composes one or more of (global, unknown, and
// one per overlay).
package segment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spimgo/spimgo/pkg/disasm/addr"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
	"github.com/spimgo/spimgo/pkg/utils"
)

var (
	// ErrInvalidRange is returned (never panicked) by callers that build a
	// range from untrusted input, e.g. a splits CSV row; SymbolsSegment's
	// constructor itself panics, since a malformed range reaching it is a
	// programmer error per spec.md §7.
	ErrInvalidRange = errors.New("segment: invalid address range")
)

// SymbolsSegment owns one contiguous (VROM, VRAM) range and every
// ContextSymbol, constant and pointer candidate discovered within it.
type SymbolsSegment struct {
	Category string

	vromStart *uint32
	vromEnd   *uint32
	vramStart uint32
	vramEnd   uint32

	// IsTheUnknownSegment marks the one segment spanning all of VRAM used
	// as a last-resort lookup target (Context.unknownSegment).
	IsTheUnknownSegment bool

	symbols           *addr.SortedMap[uint32, *symbol.ContextSymbol]
	constants         map[uint32]*symbol.ContextSymbol
	newPointersInData *addr.SortedMap[uint32, uint32]
	loPatches         map[uint32]uint32

	dataSymbolsWithReferencesWithAddends map[uint32]bool
	dataReferencingConstants             map[uint32]bool
}

// New constructs a segment. vromStart/vromEnd may both be nil (a pure
// memory-resident or unknown-VROM segment). A malformed range is a
// programmer error and panics, per spec.md §7's "assertions ... abort".
func New(category string, vromStart, vromEnd *uint32, vramStart, vramEnd uint32) *SymbolsSegment {
	if vramStart >= vramEnd {
		panic(fmt.Sprintf("segment: vramStart 0x%08X >= vramEnd 0x%08X", vramStart, vramEnd))
	}
	if (vromStart == nil) != (vromEnd == nil) {
		panic("segment: vromStart and vromEnd must both be set or both be nil")
	}
	if vromStart != nil && *vromStart >= *vromEnd {
		panic(fmt.Sprintf("segment: vromStart 0x%08X >= vromEnd 0x%08X", *vromStart, *vromEnd))
	}

	return &SymbolsSegment{
		Category:                             category,
		vromStart:                            vromStart,
		vromEnd:                              vromEnd,
		vramStart:                            vramStart,
		vramEnd:                              vramEnd,
		symbols:                              addr.NewSortedMap[uint32, *symbol.ContextSymbol](),
		constants:                            make(map[uint32]*symbol.ContextSymbol),
		newPointersInData:                    addr.NewSortedMap[uint32, uint32](),
		loPatches:                            make(map[uint32]uint32),
		dataSymbolsWithReferencesWithAddends: make(map[uint32]bool),
		dataReferencingConstants:             make(map[uint32]bool),
	}
}

// TryNew is New's fallible counterpart for callers building a range from
// untrusted input (an overlays CSV row): it reports ErrInvalidRange
// instead of panicking.
func TryNew(category string, vromStart, vromEnd *uint32, vramStart, vramEnd uint32) (*SymbolsSegment, error) {
	if vramStart >= vramEnd {
		return nil, utils.MakeError(ErrInvalidRange, "vramStart 0x%08X >= vramEnd 0x%08X", vramStart, vramEnd)
	}
	if (vromStart == nil) != (vromEnd == nil) {
		return nil, utils.MakeError(ErrInvalidRange, "vromStart and vromEnd must both be set or both be nil")
	}
	if vromStart != nil && *vromStart >= *vromEnd {
		return nil, utils.MakeError(ErrInvalidRange, "vromStart 0x%08X >= vromEnd 0x%08X", *vromStart, *vromEnd)
	}
	return New(category, vromStart, vromEnd, vramStart, vramEnd), nil
}

func (s *SymbolsSegment) VramStart() uint32 { return s.vramStart }
func (s *SymbolsSegment) VramEnd() uint32   { return s.vramEnd }
func (s *SymbolsSegment) VromStart() (uint32, bool) {
	if s.vromStart == nil {
		return 0, false
	}
	return *s.vromStart, true
}
func (s *SymbolsSegment) VromEnd() (uint32, bool) {
	if s.vromEnd == nil {
		return 0, false
	}
	return *s.vromEnd, true
}

func (s *SymbolsSegment) VramSize() uint32 { return s.vramEnd - s.vramStart }
func (s *SymbolsSegment) VromSize() (uint32, bool) {
	if s.vromStart == nil {
		return 0, false
	}
	return *s.vromEnd - *s.vromStart, true
}

func (s *SymbolsSegment) IsVramInRange(vram uint32) bool {
	return vram >= s.vramStart && vram < s.vramEnd
}

func (s *SymbolsSegment) IsVromInRange(vrom uint32) bool {
	if s.vromStart == nil {
		return false
	}
	return vrom >= *s.vromStart && vrom < *s.vromEnd
}

// ChangeRanges mutates the segment's address range in place, matching
// Context.changeGlobalSegmentRanges' widening of the global segment.
func (s *SymbolsSegment) ChangeRanges(vromStart, vromEnd *uint32, vramStart, vramEnd uint32) {
	if vramStart >= vramEnd {
		panic(fmt.Sprintf("segment: vramStart 0x%08X >= vramEnd 0x%08X", vramStart, vramEnd))
	}
	s.vromStart, s.vromEnd = vromStart, vromEnd
	s.vramStart, s.vramEnd = vramStart, vramEnd
}

// VromToVram converts a VROM offset into this segment's VRAM coordinate.
func (s *SymbolsSegment) VromToVram(vrom uint32) (uint32, bool) {
	if s.vromStart == nil || !s.IsVromInRange(vrom) {
		return 0, false
	}
	return s.vramStart + (vrom - *s.vromStart), true
}

// AddSymbol is idempotent on vram: a second call upgrades section from
// Unknown and fills vrom if previously unset, matching spec.md §4.2.
func (s *SymbolsSegment) AddSymbol(vram uint32, section symbol.Section, autogen bool, vrom *uint32) *symbol.ContextSymbol {
	sym, exists := s.symbols.Get(vram)
	if !exists {
		sym = symbol.New(vram)
		sym.Section = section
		sym.OverlayCategory = s.Category
		sym.IsAutogenerated = autogen
		if vrom != nil {
			sym.Vrom = vrom
		}
		if s.vromStart == nil || s.IsTheUnknownSegment {
			sym.UnknownSegment = true
		}
		s.symbols.Set(vram, sym)
		return sym
	}

	if sym.Section == symbol.SectionUnknown {
		sym.Section = section
	}
	if sym.Vrom == nil && vrom != nil {
		sym.Vrom = vrom
	}
	if s.vromStart == nil || s.IsTheUnknownSegment {
		sym.UnknownSegment = true
	}
	return sym
}

// AddFunction sets type=Function unless the symbol is already
// JumpTableLabel (type precedence, spec.md §4.2).
func (s *SymbolsSegment) AddFunction(vram uint32, autogen bool, vrom *uint32) *symbol.ContextSymbol {
	sym := s.AddSymbol(vram, symbol.SectionText, autogen, vrom)
	if sym.Type != symbol.JumpTableLabel {
		sym.SetType(symbol.Function)
	}
	return sym
}

// AddBranchLabel sets type=BranchLabel unless already Function or
// JumpTableLabel.
func (s *SymbolsSegment) AddBranchLabel(vram uint32, autogen bool, vrom *uint32) *symbol.ContextSymbol {
	sym := s.AddSymbol(vram, symbol.SectionText, autogen, vrom)
	if sym.Type != symbol.Function && sym.Type != symbol.JumpTableLabel {
		sym.SetType(symbol.BranchLabel)
	}
	return sym
}

// AddJumpTable sets type=JumpTable unless already Function.
func (s *SymbolsSegment) AddJumpTable(vram uint32, autogen bool, vrom *uint32) *symbol.ContextSymbol {
	sym := s.AddSymbol(vram, symbol.SectionRodata, autogen, vrom)
	if sym.Type != symbol.Function {
		sym.SetType(symbol.JumpTable)
	}
	return sym
}

// AddJumpTableLabel forces type=JumpTableLabel unconditionally: it is the
// top of the label/function lattice (spec.md §4.9).
func (s *SymbolsSegment) AddJumpTableLabel(vram uint32, autogen bool, vrom *uint32) *symbol.ContextSymbol {
	sym := s.AddSymbol(vram, symbol.SectionText, autogen, vrom)
	sym.SetType(symbol.JumpTableLabel)
	return sym
}

// AddConstant is idempotent on value: the first name assigned sticks.
func (s *SymbolsSegment) AddConstant(value uint32, name string) *symbol.ContextSymbol {
	if sym, ok := s.constants[value]; ok {
		return sym
	}
	sym := symbol.New(value)
	sym.Type = symbol.Constant
	sym.Name = name
	sym.IsDefined = true
	s.constants[value] = sym
	return sym
}

func (s *SymbolsSegment) GetConstant(value uint32) (*symbol.ContextSymbol, bool) {
	sym, ok := s.constants[value]
	return sym, ok
}

// AllConstants returns every constant ascending by value, for deterministic
// serialization (spec.md §5's "iteration order" rule applies here too).
func (s *SymbolsSegment) AllConstants() []*symbol.ContextSymbol {
	values := utils.Keys(s.constants)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	out := make([]*symbol.ContextSymbol, 0, len(values))
	for _, v := range values {
		out = append(out, s.constants[v])
	}
	return out
}

// PendingPointers returns every still-unresolved pointer-in-data candidate
// ascending by address, without draining them.
func (s *SymbolsSegment) PendingPointers() []uint32 {
	return append([]uint32(nil), s.newPointersInData.Keys()...)
}

// GetSymbol implements spec.md §4.2's lookup contract. With tryPlusOffset,
// it resolves the predecessor of addr and accepts it only if addr falls
// strictly before the predecessor's end; an unset size is treated as "no
// match" when checkUpperLimit is requested (Open Question decision #3 in
// SPEC_FULL.md), and as "always match" otherwise.
func (s *SymbolsSegment) GetSymbol(vram uint32, tryPlusOffset, checkUpperLimit bool) (*symbol.ContextSymbol, bool) {
	if !tryPlusOffset {
		return s.symbols.Get(vram)
	}

	key, ok := s.symbols.KeyRight(vram, true)
	if !ok {
		return nil, false
	}
	sym, _ := s.symbols.Get(key)

	if sym.Size == nil {
		if checkUpperLimit {
			return nil, false
		}
		return sym, true
	}
	if vram >= sym.Vram+*sym.Size {
		return nil, false
	}
	return sym, true
}

// GetSymbolsRange returns every symbol with vram in [lo, hi), ascending.
func (s *SymbolsSegment) GetSymbolsRange(lo, hi uint32) []*symbol.ContextSymbol {
	var out []*symbol.ContextSymbol
	s.symbols.Range(lo, hi, func(_ uint32, v *symbol.ContextSymbol) {
		out = append(out, v)
	})
	return out
}

// AllSymbols returns every symbol in the segment, ascending by vram.
func (s *SymbolsSegment) AllSymbols() []*symbol.ContextSymbol {
	out := make([]*symbol.ContextSymbol, 0, s.symbols.Len())
	for _, k := range s.symbols.Keys() {
		v, _ := s.symbols.Get(k)
		out = append(out, v)
	}
	return out
}

// AddPointerInDataReference records ptr as a candidate pointer target
// observed at sourceVram while scanning a data word (spec.md §4.5 point 2).
func (s *SymbolsSegment) AddPointerInDataReference(ptr, sourceVram uint32) {
	s.newPointersInData.Set(ptr, sourceVram)
}

func (s *SymbolsSegment) PopPointerInDataReference(ptr uint32) (uint32, bool) {
	return s.newPointersInData.Pop(ptr)
}

// GetAndPopPointerInDataReferencesRange drains every pending pointer
// candidate in [lo, hi), end-exclusive (spec.md §8 boundary behaviors).
func (s *SymbolsSegment) GetAndPopPointerInDataReferencesRange(lo, hi uint32) []addr.Pair[uint32, uint32] {
	return s.newPointersInData.RangeAndPop(lo, hi)
}

// AddLoPatch overrides the %lo reconstruction target for a specific
// lo-instruction's vram (spec.md glossary entry "%lo patch").
func (s *SymbolsSegment) AddLoPatch(loInstrVram, targetVram uint32) {
	s.loPatches[loInstrVram] = targetVram
}

func (s *SymbolsSegment) GetLoPatch(loInstrVram uint32) (uint32, bool) {
	v, ok := s.loPatches[loInstrVram]
	return v, ok
}

// MarkDataReferenceWithAddend and MarkDataReferencingConstant record, per
// spec.md's SymbolsSegment field list, which data words referenced a symbol
// with a nonzero addend or a constant value, for emitters that need to
// distinguish those words later.
func (s *SymbolsSegment) MarkDataReferenceWithAddend(vram uint32) {
	s.dataSymbolsWithReferencesWithAddends[vram] = true
}

func (s *SymbolsSegment) HasDataReferenceWithAddend(vram uint32) bool {
	return s.dataSymbolsWithReferencesWithAddends[vram]
}

func (s *SymbolsSegment) MarkDataReferencingConstant(vram uint32) {
	s.dataReferencingConstants[vram] = true
}

func (s *SymbolsSegment) HasDataReferencingConstant(vram uint32) bool {
	return s.dataReferencingConstants[vram]
}
