package emit

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/spimgo/spimgo/internal/config"
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/section"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func wordBytes(cfg config.Config, word uint32) [4]byte {
	if cfg.Endian == config.EndianLittle {
		return [4]byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
	}
	return [4]byte{byte(word >> 24), byte(word >> 16), byte(word >> 8), byte(word)}
}

// renderString implements spec.md §4.5 point 3's string handling: decode
// the word buffer as EUC-JP up to the first zero byte, require every byte
// from that terminator to the end of the symbol's words to be zero, and emit
// a single .asciz line. Returns ok=false on any decode or padding failure,
// the caller falls back to word emission and latches FailedStringDecoding
// (spec.md §7).
func renderString(cfg config.Config, ctx *context.Context, sym *symbol.ContextSymbol, words []section.DataWord) (string, bool) {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b := wordBytes(cfg, w.Raw)
		buf = append(buf, b[:]...)
	}

	terminator := -1
	for i, b := range buf {
		if b == 0 {
			terminator = i
			break
		}
	}
	if terminator == -1 {
		return "", false
	}

	for i := terminator; i < len(buf); i++ {
		if buf[i] != 0 {
			return "", false
		}
	}

	decoded, err := decodeEUCJP(buf[:terminator])
	if err != nil {
		return "", false
	}

	var b strings.Builder
	offset := uint32(0)
	b.WriteString(lineComment(cfg, offset, sym.Vram, words[0].Raw))
	fmt.Fprintf(&b, ".asciz \"%s\"\n", escapeAsciz(decoded))

	return b.String(), true
}

func decodeEUCJP(raw []byte) (string, error) {
	decoded, _, err := transform.Bytes(japanese.EUCJP.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func escapeAsciz(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
