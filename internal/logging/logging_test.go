package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsUsableLoggerBothModes(t *testing.T) {
	quiet := New(false)
	assert.NotNil(t, quiet)

	verbose := New(true)
	assert.NotNil(t, verbose)

	assert.NotPanics(t, func() {
		quiet.Info("quiet mode smoke test")
		verbose.Info("verbose mode smoke test")
	})
}
