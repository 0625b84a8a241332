package instr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLui(t *testing.T) {
	// lui $t6, 0x8010
	word := uint32(0x3C0E8010)
	i := Decode(word, 0x80000000)

	assert.True(t, i.IsLui())
	// Immediate sign-extends: 0x8010 as int16 is -0x7FF0.
	assert.Equal(t, int32(-0x7FF0), i.Immediate())
}

func TestDecodeJal(t *testing.T) {
	// jal 0x80010004 at vram 0x80000000 (delay slot vram 0x80000004)
	target := uint32(0x80010004)
	word := uint32(opJal)<<26 | ((target >> 2) & 0x03FFFFFF)
	i := Decode(word, 0x80000000)

	require.True(t, i.IsJumpAndLink())
	got, ok := i.JumpTarget()
	require.True(t, ok)
	assert.Equal(t, target, got)
}

func TestDecodeBeqTarget(t *testing.T) {
	// beq $zero, $zero, +8 words from the delay slot
	word := uint32(opBeq)<<26 | uint32(8&0xFFFF)
	i := Decode(word, 0x80001000)

	require.True(t, i.IsBranch())
	target, ok := i.BranchTarget()
	require.True(t, ok)
	assert.Equal(t, uint32(0x80001000+4+8*4), target)
}

func TestDecodeJr(t *testing.T) {
	word := uint32(0x03E00008) // jr $ra
	i := Decode(word, 0x80001000)

	assert.True(t, i.IsJumpRegister())
}
