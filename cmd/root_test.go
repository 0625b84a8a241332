package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	uses := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		uses[c.Name()] = true
	}

	for _, name := range []string{"disasm", "context", "inspect"} {
		assert.True(t, uses[name], "expected %q registered under root", name)
	}
}

func TestRootCommandHasConfigFlag(t *testing.T) {
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup("config"))
}
