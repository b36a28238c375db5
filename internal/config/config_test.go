package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns expected defaults (reference headers, extensions, includes/excludes)
// - LoadConfig() loads from .uwscan/config.yml when present
// - LoadConfig() merges config file with defaults
// - Environment variables override config file values
// - LoadConfig() returns error when no reference path is configured
// - LoadConfig() returns error for malformed YAML
// - Validate() accepts a complete configuration
// - Validate() rejects missing reference path
// - Validate() rejects missing stage directories
// - Validate() rejects extensions without a leading dot
// - Validate() rejects malformed min_modified dates
// - Validate() rejects negative workers and debounce
// - Validate() returns multiple errors for multiple invalid fields
// - TableConfig()/FinderCriteria()/RefreshTTL()/Debounce() conversions

func validConfig() *Config {
	cfg := Default()
	cfg.Reference.Path = "/models/reference.xlsm"
	cfg.Discovery.StageDirs = []string{"/deals/Closed", "/deals/Active"}
	return cfg
}

func writeConfigFile(t *testing.T, rootDir, content string) {
	t.Helper()
	configDir := filepath.Join(rootDir, ".uwscan")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0644))
}

func TestDefault_ReturnsExpectedDefaults(t *testing.T) {
	// Test: Default() returns expected defaults
	cfg := Default()

	require.NotNil(t, cfg)

	// Verify reference table defaults
	assert.Equal(t, "UW Model - Cell Reference Table", cfg.Reference.Sheet)
	assert.Equal(t, "Values Reference Range", cfg.Reference.RefColumn)
	assert.Equal(t, "DataFrame Column Names", cfg.Reference.NameColumn)
	assert.Equal(t, 10, cfg.Reference.RefreshMinutes)

	// Verify discovery defaults
	assert.Equal(t, "UW Model", cfg.Discovery.ModelSubdir)
	assert.Equal(t, []string{".xlsb", ".xlsm"}, cfg.Discovery.Extensions)
	assert.Equal(t, []string{"UW Model vCurrent"}, cfg.Discovery.Includes)
	assert.Equal(t, []string{"Speedboat"}, cfg.Discovery.Excludes)
	assert.NotEmpty(t, cfg.Discovery.Ignore)

	// Verify storage and scan defaults
	assert.Equal(t, "database/underwriting_models.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "underwriting_model_data", cfg.Storage.Table)
	assert.Equal(t, 0, cfg.Scan.Workers)
	assert.Equal(t, 500, cfg.Scan.DebounceMs)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	// Test: Load from .uwscan/config.yml
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, `
reference:
  path: /models/Cell Reference Table.xlsm
  refresh_minutes: 30

discovery:
  stage_dirs:
    - /deals/Closed
    - /deals/Active
  min_modified: "2024-01-01"

storage:
  database_path: /data/models.db

scan:
  workers: 4
`)

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	// File values applied
	assert.Equal(t, "/models/Cell Reference Table.xlsm", cfg.Reference.Path)
	assert.Equal(t, 30, cfg.Reference.RefreshMinutes)
	assert.Equal(t, []string{"/deals/Closed", "/deals/Active"}, cfg.Discovery.StageDirs)
	assert.Equal(t, "2024-01-01", cfg.Discovery.MinModified)
	assert.Equal(t, "/data/models.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 4, cfg.Scan.Workers)

	// Defaults preserved where the file is silent
	assert.Equal(t, "UW Model - Cell Reference Table", cfg.Reference.Sheet)
	assert.Equal(t, []string{".xlsb", ".xlsm"}, cfg.Discovery.Extensions)
	assert.Equal(t, "underwriting_model_data", cfg.Storage.Table)
	assert.Equal(t, 500, cfg.Scan.DebounceMs)
}

func TestLoadConfig_EnvOverridesConfigFile(t *testing.T) {
	// Test: Environment variables win over config file values
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, `
reference:
  path: /models/from-file.xlsm
discovery:
  stage_dirs:
    - /deals/Closed
`)

	t.Setenv("UWSCAN_REFERENCE_PATH", "/models/from-env.xlsm")
	t.Setenv("UWSCAN_SCAN_WORKERS", "8")

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, "/models/from-env.xlsm", cfg.Reference.Path)
	assert.Equal(t, 8, cfg.Scan.Workers)
}

func TestLoadConfig_ErrorWhenReferencePathMissing(t *testing.T) {
	// Test: No config file and no env means no reference path
	tempDir := t.TempDir()

	_, err := NewLoader(tempDir).Load()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReferencePath)
}

func TestLoadConfig_ErrorForMalformedYAML(t *testing.T) {
	// Test: Malformed YAML surfaces as a read error
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, "reference: [unterminated")

	_, err := NewLoader(tempDir).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_AcceptsCompleteConfiguration(t *testing.T) {
	// Test: A complete configuration validates
	cfg := validConfig()

	assert.NoError(t, Validate(cfg))
}

func TestValidate_RejectsMissingStageDirs(t *testing.T) {
	// Test: Empty stage_dirs is rejected
	cfg := validConfig()
	cfg.Discovery.StageDirs = nil

	err := Validate(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingStageDirs)
}

func TestValidate_RejectsExtensionWithoutDot(t *testing.T) {
	// Test: Extensions must carry a leading dot
	cfg := validConfig()
	cfg.Discovery.Extensions = []string{"xlsb"}

	err := Validate(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestValidate_RejectsMalformedMinModified(t *testing.T) {
	// Test: min_modified must be YYYY-MM-DD
	cfg := validConfig()
	cfg.Discovery.MinModified = "01/02/2024"

	err := Validate(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValidate_RejectsNegativeScanSettings(t *testing.T) {
	// Test: Negative workers and debounce are rejected
	cfg := validConfig()
	cfg.Scan.Workers = -1
	cfg.Scan.DebounceMs = -100

	err := Validate(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScan)
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	// Test: Multiple invalid fields reported together
	cfg := Default()
	cfg.Reference.Sheet = ""
	cfg.Storage.DatabasePath = ""

	err := Validate(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference.path is required")
	assert.Contains(t, err.Error(), "reference.sheet is required")
	assert.Contains(t, err.Error(), "database_path is required")
	assert.Contains(t, err.Error(), "at least one stage directory required")
}

func TestConversions(t *testing.T) {
	// Test: Derived forms reflect the configuration
	cfg := validConfig()
	cfg.Discovery.MinModified = "2024-06-15"

	table := cfg.TableConfig()
	assert.Equal(t, cfg.Reference.Path, table.Path)
	assert.Equal(t, cfg.Reference.Sheet, table.Sheet)
	assert.Equal(t, cfg.Reference.RefColumn, table.RefColumn)
	assert.Equal(t, cfg.Reference.NameColumn, table.NameColumn)

	criteria := cfg.FinderCriteria()
	assert.Equal(t, cfg.Discovery.StageDirs, criteria.StageDirs)
	assert.Equal(t, "UW Model", criteria.ModelSubdir)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), criteria.MinModified)

	assert.Equal(t, 10*time.Minute, cfg.RefreshTTL())
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce())
}
