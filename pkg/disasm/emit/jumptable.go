package emit

import (
	"fmt"
	"strings"

	"github.com/spimgo/spimgo/internal/config"
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/section"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// renderJumpTable implements spec.md §4.5 point 3's jump-table fallback
// and SPEC_FULL.md supplemented feature 3: under PIC with a configured
// $gp value, each word is a signed $gp-relative offset rendered with
// .gpword; otherwise it's an absolute code address rendered with .word,
// resolved to its JumpTableLabel when possible.
func renderJumpTable(cfg config.Config, ctx *context.Context, sym *symbol.ContextSymbol, words []section.DataWord) string {
	var b strings.Builder

	directive := ".word"
	if cfg.PIC && cfg.GPValue != nil {
		directive = ".gpword"
	}

	for _, w := range words {
		offset := w.Vram - sym.Vram
		b.WriteString(lineComment(cfg, offset, w.Vram, w.Raw))

		if cfg.PIC && cfg.GPValue != nil {
			labelAddr := uint32(int64(*cfg.GPValue) + int64(int32(w.Raw)))
			if target, ok := ctx.GetSymbol(sym.OverlayCategory, labelAddr, false, true); ok {
				fmt.Fprintf(&b, "%s %s\n", directive, target.DisplayName())
				continue
			}
			fmt.Fprintf(&b, "%s 0x%08X\n", directive, labelAddr)
			continue
		}

		if w.Ref.Kind == section.RefSymbol {
			fmt.Fprintf(&b, "%s %s\n", directive, w.Ref.Symbol.DisplayName())
			continue
		}
		fmt.Fprintf(&b, "%s 0x%08X\n", directive, w.Raw)
	}

	return b.String()
}
