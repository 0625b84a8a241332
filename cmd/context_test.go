package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextCommandsAreRegisteredUnderRoot(t *testing.T) {
	found := false
	for _, c := range RootCmd.Commands() {
		if c.Use == "context" {
			found = true
			assert.NotNil(t, c.Commands()[0])
		}
	}
	assert.True(t, found, "context command not registered under root")
}

func TestLoadCSVSkipsEmptyPath(t *testing.T) {
	called := false
	loadCSV("", func(f *os.File) []error { called = true; return nil })
	assert.False(t, called)
}

func TestLoadCSVReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "functions.csv")
	assert.NoError(t, os.WriteFile(path, []byte("0x80000400,func_800000400\n"), 0o644))

	var got []string
	loadCSV(path, func(f *os.File) []error {
		got = append(got, "called")
		return nil
	})

	assert.Equal(t, []string{"called"}, got)
}
