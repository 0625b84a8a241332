package highlight

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHighlightAsmPreservesPlainTextStructure(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	src := "glabel func_80001000\nfunc_80001000:\n .word 0x12345678\n jr $ra\n"
	out := HighlightAsm(src)

	assert.Equal(t, src, out)
}

func TestHighlightAsmInsertsColorEscapesWhenEnabled(t *testing.T) {
	color.NoColor = false

	src := ".word 0x10\n"
	out := HighlightAsm(src)

	assert.Contains(t, out, "\x1b[")
	assert.NotEqual(t, src, out)
}
