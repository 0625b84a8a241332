package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectCommandRegistersExpectedFlags(t *testing.T) {
	for _, name := range []string{"functions", "variables", "constants"} {
		assert.NotNil(t, inspectCmd.Flags().Lookup(name), "missing --%s flag", name)
	}
}
