package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpgradeLatticePrecedence(t *testing.T) {
	assert.Equal(t, Function, Upgrade(Unknown, Function))
	assert.Equal(t, JumpTableLabel, Upgrade(Function, JumpTableLabel))
	assert.Equal(t, Function, Upgrade(Function, BranchLabel))
	assert.Equal(t, BranchLabel, Upgrade(Unknown, BranchLabel))
	assert.Equal(t, Function, Upgrade(BranchLabel, Function))
	assert.Equal(t, JumpTableLabel, Upgrade(BranchLabel, JumpTableLabel))
}

func TestUpgradeStickyOutsideLattice(t *testing.T) {
	assert.Equal(t, Word, Upgrade(Word, Float))
	assert.Equal(t, Float, Upgrade(Unknown, Float))
}

func TestDisplayNameAutogenPrefixes(t *testing.T) {
	s := New(0x80010004)
	s.Type = Float
	assert.Equal(t, "FLT_80010004", s.DisplayName())

	s.Type = Double
	assert.Equal(t, "DBL_80010004", s.DisplayName())

	s.Type = String
	assert.Equal(t, "STR_80010004", s.DisplayName())

	s.Type = JumpTable
	assert.Equal(t, "jtbl_80010004", s.DisplayName())

	s.Type = Function
	assert.Equal(t, "func_80010004", s.DisplayName())

	s.Type = Word
	assert.Equal(t, "D_80010004", s.DisplayName())
}

func TestRenameRefusesUserDeclared(t *testing.T) {
	s := New(0x80010000)
	s.IsUserDeclared = true
	s.Name = "foo"

	s.Rename("bar")

	assert.Equal(t, "foo", s.Name)
}

func TestContainsAddend(t *testing.T) {
	s := New(0x80010000)
	size := uint32(0x40)
	s.Size = &size

	assert.True(t, s.ContainsAddend(0x80010000))
	assert.True(t, s.ContainsAddend(0x80010010))
	assert.False(t, s.ContainsAddend(0x80010040))
}
