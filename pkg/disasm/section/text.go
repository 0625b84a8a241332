package section

import (
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/instr"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// TextSection owns executable code: the only section analyzer that
// consumes the opaque Instruction decoder boundary.
type TextSection struct {
	VromStart        uint32
	VramStart        uint32
	Bytes            []byte
	Endian           Endian
	SegmentVromStart *uint32
	OverlayCategory  string
	Filename         string
}

type luiPending struct {
	upper uint32
	vram  uint32
}

// RodataWordAt resolves the raw word at a rodata vram, used only for jump
// table entry expansion; callers that haven't processed rodata yet (or
// have none) may pass a function that always returns (0, false), in which
// case jump tables are still typed but their entries aren't expanded until
// a later fixed-point pass re-runs text analysis.
type RodataWordAt func(vram uint32) (uint32, bool)

// Analyze implements spec.md §4.6: direct jump/branch targets become
// Function/BranchLabel candidates, lui/addiu/lw/sw pairs reconstruct
// 32-bit addresses via a per-register sliding window, and a jr tracing
// back to a rodata-loaded pointer promotes that rodata array to a jump
// table.
func (s *TextSection) Analyze(ctx *context.Context, seg *segment.SymbolsSegment, rodataWordAt RodataWordAt) []*symbol.ContextSymbol {
	start := s.VramStart
	end := s.VramStart + uint32(len(s.Bytes))

	checkAndCreateFirstSymbol(seg, start, symbol.SectionText)
	seg.AddFunction(start, true, nil)

	lui := make(map[int]luiPending)
	loadedTable := make(map[int]uint32)

	for i := 0; i+4 <= len(s.Bytes); i += 4 {
		vram := start + uint32(i)
		raw := s.Endian.wordAt(s.Bytes[i : i+4])
		ins := instr.Decode(raw, vram)

		switch {
		case ins.IsJumpAndLink():
			if target, ok := ins.JumpTarget(); ok && !ctx.IsBanned(target) {
				seg.AddFunction(target, true, nil)
			}
		case ins.IsJump():
			if target, ok := ins.JumpTarget(); ok && !ctx.IsBanned(target) {
				seg.AddFunction(target, true, nil)
			}
		case ins.IsBranch():
			if target, ok := ins.BranchTarget(); ok && !ctx.IsBanned(target) {
				seg.AddBranchLabel(target, true, nil)
			}
		case ins.IsJumpRegister():
			if tableAddr, ok := loadedTable[ins.Rs()]; ok {
				s.promoteJumpTable(ctx, seg, tableAddr, rodataWordAt)
			}
		}

		if ins.IsLui() {
			lui[ins.Rt()] = luiPending{upper: uint32(ins.Immediate()) << 16, vram: vram}
			continue
		}

		base := ins.Rs()
		pending, hasPending := lui[base]
		if !hasPending || !(ins.IsAddiu() || ins.IsLoad() || ins.IsStore()) {
			continue
		}

		target := uint32(int64(pending.upper) + int64(ins.Immediate()))
		if patch, ok := seg.GetLoPatch(vram); ok {
			target = patch
		}
		delete(lui, base)

		if ctx.IsBanned(target) {
			continue
		}

		if ins.IsLoad() {
			if sym, ok := ctx.GetSymbol(s.OverlayCategory, target, false, true); ok && sym.Section == symbol.SectionRodata {
				loadedTable[ins.Rt()] = target
			}
		}

		if target < start || target >= end {
			seg.AddPointerInDataReference(target, vram)
		}
	}

	for _, sym := range seg.GetSymbolsRange(start, end) {
		sym.Section = symbol.SectionText
		sym.IsDefined = true
	}

	return fillSpanSizes(seg, start, end)
}

// promoteJumpTable applies spec.md §4.6's last bullet: the table's base
// symbol is upgraded to JumpTable, and (when rodataWordAt can resolve
// entries) each entry becomes a JumpTableLabel in the same segment.
func (s *TextSection) promoteJumpTable(ctx *context.Context, seg *segment.SymbolsSegment, tableAddr uint32, rodataWordAt RodataWordAt) {
	seg.AddJumpTable(tableAddr, false, nil)

	if rodataWordAt == nil {
		return
	}

	for entry := tableAddr; ; entry += 4 {
		word, ok := rodataWordAt(entry)
		if !ok {
			break
		}
		if ctx.IsBanned(word) {
			break
		}
		if word < s.VramStart || word >= s.VramStart+uint32(len(s.Bytes)) {
			break
		}
		seg.AddJumpTableLabel(word, true, nil)
	}
}
