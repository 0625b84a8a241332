package section

import (
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// WordRefKind classifies how a data/rodata word should be rendered.
type WordRefKind int

const (
	RefLiteral WordRefKind = iota
	RefSymbol
	RefReloc
)

// WordRef is the result of classifying one 32-bit word per spec.md §4.5
// step 1: either a plain literal, a symbol (+ addend) reference, or a
// relocation-supplied name.
type WordRef struct {
	Kind      WordRefKind
	Symbol    *symbol.ContextSymbol
	Addend    uint32
	RelocText string
}

// ClassifyWord implements spec.md §4.5 step 1. A RelocInfo registered at
// vram always wins; otherwise the word is tested as a potential pointer,
// with addend references to Function symbols suppressed (only an exact
// match on a function's entry point is kept).
func ClassifyWord(ctx *context.Context, category string, sectionType symbol.Section, vram uint32, word uint32) WordRef {
	if info, ok := ctx.GetRelocInfo(sectionType, vram); ok {
		if resolved, ok := info.Resolve(word); ok {
			if sym, ok := ctx.GetSymbol(category, resolved, false, true); ok {
				return WordRef{Kind: RefSymbol, Symbol: sym, Addend: resolved - sym.Vram}
			}
		}
		return WordRef{Kind: RefReloc, RelocText: info.GetNamePlusOffset(word)}
	}

	if ctx.IsBanned(word) {
		return WordRef{Kind: RefLiteral}
	}

	if sym, ok := ctx.GetSymbol(category, word, true, true); ok {
		if sym.Type != symbol.Function || word == sym.Vram {
			return WordRef{Kind: RefSymbol, Symbol: sym, Addend: word - sym.Vram}
		}
	}

	return WordRef{Kind: RefLiteral}
}

// PropagatePointerCandidate deposits word into the segment's
// newPointersInData queue when it looks like it could plausibly be a
// pointer: 4-aligned, inside the context's known VRAM envelope, and not
// banned (spec.md §4.5 step 2).
func PropagatePointerCandidate(ctx *context.Context, segAddPointer func(ptr, source uint32), vram, word uint32) {
	if word%4 != 0 {
		return
	}
	if ctx.IsBanned(word) {
		return
	}
	lo, hi := ctx.TotalVramRange()
	if word < lo || word >= hi {
		return
	}
	segAddPointer(word, vram)
}
