package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesOriginalGlobalConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, EndianBig, cfg.Endian)
	assert.Equal(t, CompilerIDO, cfg.Compiler)
	assert.True(t, cfg.ASMComment)
	assert.True(t, cfg.ASMDataSymAsLabel)
	assert.Equal(t, "euc-jp", cfg.StringEncoding)
}

func TestIgnoresWordRequiresRemovePointers(t *testing.T) {
	cfg := Default()
	cfg.IgnoreWordList = []byte{0x80}

	assert.False(t, cfg.IgnoresWord(0x80001234))

	cfg.RemovePointers = true
	assert.True(t, cfg.IgnoresWord(0x80001234))
	assert.False(t, cfg.IgnoresWord(0x04001234))
}
