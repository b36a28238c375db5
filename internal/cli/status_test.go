package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for CLI helpers:
// - formatNumber adds thousand separators
// - loadConfig surfaces configuration errors from the root flag directory

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

func TestLoadConfig_ReportsValidationErrors(t *testing.T) {
	// An empty root has no config file, so the required reference path
	// is missing and loading must fail.
	rootDirFlag = t.TempDir()
	t.Cleanup(func() { rootDirFlag = "" })

	_, err := loadConfig()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reference.path")
}
