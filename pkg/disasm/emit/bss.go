package emit

import (
	"fmt"
	"strings"

	"github.com/spimgo/spimgo/internal/config"
	"github.com/spimgo/spimgo/pkg/disasm/section"
)

// RenderBss implements SymbolBss.disassembleAsBss: a referencee comment,
// the label, and a single `.space 0x..` body line (spec.md §4.7).
func RenderBss(cfg config.Config, bss *section.BssSymbol) string {
	var b strings.Builder

	b.WriteString(referenceeComment(cfg, bss.Sym))
	b.WriteString(label(cfg, bss.Sym))
	fmt.Fprintf(&b, " .space 0x%02X\n", bss.Space)

	return b.String()
}
