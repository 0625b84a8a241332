// Package emit implements the symbol emitters from spec.md §4.7: each one
// classifies and renders a single ContextSymbol's bytes as GAS-MIPS
// assembly lines, ported from MipsSymbolBase.py/MipsSymbolRodata.py/
// MipsSymbolBss.py.
package emit

import (
	"fmt"
	"strings"

	"github.com/spimgo/spimgo/internal/config"
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/section"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// labelMacro picks the GAS label macro for a symbol's type, matching the
// original's per-type glabel/dlabel/jlabel choice.
func labelMacro(t symbol.Type) string {
	switch t {
	case symbol.Function:
		return "glabel"
	case symbol.JumpTable, symbol.JumpTableLabel:
		return "jlabel"
	default:
		return "dlabel"
	}
}

// lineComment renders the leading "/* offset vram word */" comment gated
// by Config.ASMComment (spec.md §4.7).
func lineComment(cfg config.Config, fileOffset, vram, word uint32) string {
	if !cfg.ASMComment {
		return ""
	}
	return fmt.Sprintf("/* %06X %08X %08X */ ", fileOffset, vram, word)
}

// referenceeComment renders the comment block listing referencing
// functions/symbols, gated by ASMComment && ASMReferenceeSymbols.
func referenceeComment(cfg config.Config, sym *symbol.ContextSymbol) string {
	if !cfg.ASMComment || !cfg.ASMReferenceeSymbols {
		return ""
	}
	if len(sym.ReferenceFunctions) == 0 && len(sym.ReferenceSymbols) == 0 {
		return ""
	}
	return fmt.Sprintf("/* referenced by %d function(s), %d symbol(s) */\n",
		len(sym.ReferenceFunctions), len(sym.ReferenceSymbols))
}

// label renders the label macro line, plus an optional "name:" line when
// ASMDataSymAsLabel is set (spec.md §4.7).
func label(cfg config.Config, sym *symbol.ContextSymbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelMacro(sym.Type), sym.DisplayName())
	if cfg.ASMDataSymAsLabel {
		fmt.Fprintf(&b, "%s:\n", sym.DisplayName())
	}
	return b.String()
}

// prevAlignDirective implements the Open Question decision: `.align 3`
// stays conditional on Compiler in {SN64, PSYQ} for Double symbols, never
// generalized (spec.md §9, SPEC_FULL.md decision #1).
func prevAlignDirective(cfg config.Config, isDouble bool) string {
	if isDouble && (cfg.Compiler == config.CompilerSN64 || cfg.Compiler == config.CompilerPSYQ) {
		return ".align 3\n"
	}
	return ""
}

// postAlignDirective implements the post-body alignment: `.align 2` for
// strings under SN64/PSYQ, else `.balign 4`.
func postAlignDirective(cfg config.Config, isString bool) string {
	if isString && (cfg.Compiler == config.CompilerSN64 || cfg.Compiler == config.CompilerPSYQ) {
		return ".align 2\n"
	}
	return ".balign 4\n"
}

// RenderFunctionLabel renders a text-section symbol's label line (and
// referencee comment). Actual instruction-to-mnemonic rendering is the
// decoder's job, kept outside spec.md §1's scope; this covers the part of
// spec.md §4.7 that text symbols share with every other symbol type: the
// glabel/dlabel/jlabel declaration other tools anchor their own
// instruction listings to.
func RenderFunctionLabel(cfg config.Config, sym *symbol.ContextSymbol) string {
	var b strings.Builder
	b.WriteString(referenceeComment(cfg, sym))
	b.WriteString(label(cfg, sym))
	return b.String()
}

// RenderDataSymbol renders one data/rodata ContextSymbol's classified
// words as assembly, dispatching on the symbol's type: string (falling back
// to plain words when decoding fails), jump table, byte, short, double, else
// float or word (either one split into bytes/shorts per word when a sub-word
// symbol exists inside it).
func RenderDataSymbol(cfg config.Config, ctx *context.Context, sym *symbol.ContextSymbol, words []section.DataWord, isRdata bool) string {
	var b strings.Builder

	b.WriteString(referenceeComment(cfg, sym))
	if isRdata && cfg.ASMComment {
		b.WriteString("/* rdata */\n")
	}
	b.WriteString(prevAlignDirective(cfg, sym.Type == symbol.Double))
	b.WriteString(label(cfg, sym))

	switch {
	case sym.Type == symbol.String || sym.Type == symbol.CString:
		body, ok := renderString(cfg, ctx, sym, words)
		if ok {
			b.WriteString(body)
			b.WriteString(postAlignDirective(cfg, true))
			return b.String()
		}
		sym.FailedStringDecoding = true
		b.WriteString(renderWordsWithSubwordProbe(cfg, ctx, sym, words, renderPlainWord))
	case sym.Type == symbol.JumpTable:
		b.WriteString(renderJumpTable(cfg, ctx, sym, words))
	case sym.Type == symbol.Byte:
		b.WriteString(renderWords(cfg, sym, words, renderByteWord))
	case sym.Type == symbol.Short:
		b.WriteString(renderWords(cfg, sym, words, renderShortWord))
	case sym.Type == symbol.Double:
		b.WriteString(renderDoublePairs(cfg, ctx, sym, words))
	default:
		// Float and Word (and untyped) symbols still defer to a sub-word
		// symbol splitting this word, matching MipsSymbolRodata.getNthWord's
		// fallback order: a smaller symbol inside the word wins over the
		// containing symbol's nominal type (spec.md §4.5 point 3, §8
		// round-trip property 4).
		wordRender := renderPlainWord
		if sym.Type == symbol.Float {
			wordRender = renderFloatWord
		}
		b.WriteString(renderWordsWithSubwordProbe(cfg, ctx, sym, words, wordRender))
	}

	b.WriteString(postAlignDirective(cfg, false))
	return b.String()
}

func renderWords(cfg config.Config, sym *symbol.ContextSymbol, words []section.DataWord, render func(config.Config, section.DataWord) string) string {
	var b strings.Builder
	for _, w := range words {
		offset := w.Vram - sym.Vram
		b.WriteString(lineComment(cfg, offset, w.Vram, w.Raw))
		b.WriteString(render(cfg, w))
		b.WriteByte('\n')
	}
	return b.String()
}

// subwordSplit probes for an exact-match symbol inside this word, mirroring
// MipsSymbolRodata.getNthWord's scan order: offset+3 then +1 (either forces
// a byte split), else +2 (a short split). tryPlusOffset is false in every
// probe so a predecessor symbol spanning into this word never matches.
func subwordSplit(ctx *context.Context, category string, vram uint32) (isByte, isShort bool) {
	if _, ok := ctx.GetSymbol(category, vram+3, false, true); ok {
		return true, false
	}
	if _, ok := ctx.GetSymbol(category, vram+1, false, true); ok {
		return true, false
	}
	if _, ok := ctx.GetSymbol(category, vram+2, false, true); ok {
		return false, true
	}
	return false, false
}

func hasSubwordSymbol(ctx *context.Context, category string, vram uint32) bool {
	isByte, isShort := subwordSplit(ctx, category, vram)
	return isByte || isShort
}

// renderWordsWithSubwordProbe is renderWords plus the sub-word-symbol check:
// a word containing a smaller declared symbol always splits into bytes or
// shorts, overriding render's type-driven choice for that one word
// (spec.md §4.5 point 3, §8 round-trip property 4).
func renderWordsWithSubwordProbe(cfg config.Config, ctx *context.Context, sym *symbol.ContextSymbol, words []section.DataWord, render func(config.Config, section.DataWord) string) string {
	var b strings.Builder
	for _, w := range words {
		offset := w.Vram - sym.Vram
		b.WriteString(lineComment(cfg, offset, w.Vram, w.Raw))
		switch isByte, isShort := subwordSplit(ctx, sym.OverlayCategory, w.Vram); {
		case isByte:
			b.WriteString(renderByteWord(cfg, w))
		case isShort:
			b.WriteString(renderShortWord(cfg, w))
		default:
			b.WriteString(render(cfg, w))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderPlainWord(cfg config.Config, w section.DataWord) string {
	switch w.Ref.Kind {
	case section.RefSymbol:
		if w.Ref.Addend == 0 {
			return fmt.Sprintf(".word %s", w.Ref.Symbol.DisplayName())
		}
		return fmt.Sprintf(".word %s + 0x%X", w.Ref.Symbol.DisplayName(), w.Ref.Addend)
	case section.RefReloc:
		return fmt.Sprintf(".word %s", w.Ref.RelocText)
	default:
		return fmt.Sprintf(".word 0x%08X", w.Raw)
	}
}

func renderByteWord(cfg config.Config, w section.DataWord) string {
	return fmt.Sprintf(".byte 0x%02X, 0x%02X, 0x%02X, 0x%02X",
		byte(w.Raw>>24), byte(w.Raw>>16), byte(w.Raw>>8), byte(w.Raw))
}

func renderShortWord(cfg config.Config, w section.DataWord) string {
	return fmt.Sprintf(".short 0x%04X, 0x%04X", uint16(w.Raw>>16), uint16(w.Raw))
}

// isNaNOrInf implements isFloat's NaN/infinity filter: exponent bits all
// set (spec.md §4.5 point 3, scenario 4).
func isNaNOrInf(word uint32) bool {
	return word&0x7F800000 == 0x7F800000
}

func renderFloatWord(cfg config.Config, w section.DataWord) string {
	if isNaNOrInf(w.Raw) {
		return renderPlainWord(cfg, w)
	}
	return fmt.Sprintf(".float %s", formatFloat32(w.Raw))
}

// renderDoublePairs implements the Double fallback: pairs with all-ones
// exponent bits, an odd trailing word, or a sub-word symbol splitting
// either word of the pair, fall back to plain/byte/short word rendering
// and the type is cleared (spec.md §7 double-alignment violation, §4.5
// point 3's sub-word fallback).
func renderDoublePairs(cfg config.Config, ctx *context.Context, sym *symbol.ContextSymbol, words []section.DataWord) string {
	var b strings.Builder
	for i := 0; i < len(words); i += 2 {
		if i+1 >= len(words) {
			sym.ClearType()
			b.WriteString(renderWordsWithSubwordProbe(cfg, ctx, sym, words[i:i+1], renderPlainWord))
			break
		}
		if hasSubwordSymbol(ctx, sym.OverlayCategory, words[i].Vram) || hasSubwordSymbol(ctx, sym.OverlayCategory, words[i+1].Vram) {
			sym.ClearType()
			b.WriteString(renderWordsWithSubwordProbe(cfg, ctx, sym, words[i:i+2], renderPlainWord))
			continue
		}
		hi, lo := words[i].Raw, words[i+1].Raw
		bits := uint64(hi)<<32 | uint64(lo)
		if bits&0x7FF0000000000000 == 0x7FF0000000000000 {
			sym.ClearType()
			b.WriteString(renderWords(cfg, sym, words[i:i+2], renderPlainWord))
			continue
		}
		offset := words[i].Vram - sym.Vram
		b.WriteString(lineComment(cfg, offset, words[i].Vram, hi))
		fmt.Fprintf(&b, ".double %s\n", formatFloat64(bits))
	}
	return b.String()
}

// CountExtraPadding implements the supplemented extra-padding-counting
// feature (MipsSymbolRodata.countExtraPadding): the number of trailing zero
// words of the symbol, rounded down to an even count for Double symbols.
// No code in this repository calls it.
func CountExtraPadding(sym *symbol.ContextSymbol, words []section.DataWord) int {
	extra := 0
	for i := len(words) - 1; i >= 0; i-- {
		if words[i].Raw != 0 {
			break
		}
		extra++
	}
	if sym.Type == symbol.Double && extra%2 != 0 {
		extra--
	}
	return extra
}
