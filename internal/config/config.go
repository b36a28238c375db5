package config

import (
	"time"

	"github.com/brcap/uwscan/internal/discovery"
	"github.com/brcap/uwscan/internal/refspec"
	"github.com/brcap/uwscan/internal/storage"
)

// Config represents the complete uwscan configuration.
// It can be loaded from .uwscan/config.yml with environment variable overrides.
type Config struct {
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Scan      ScanConfig      `yaml:"scan" mapstructure:"scan"`
}

// ReferenceConfig locates the cell reference table workbook.
type ReferenceConfig struct {
	Path           string `yaml:"path" mapstructure:"path"`                       // path to the reference workbook
	Sheet          string `yaml:"sheet" mapstructure:"sheet"`                     // sheet containing the reference table
	RefColumn      string `yaml:"ref_column" mapstructure:"ref_column"`           // header of the reference expression column
	NameColumn     string `yaml:"name_column" mapstructure:"name_column"`         // header of the output field name column
	RefreshMinutes int    `yaml:"refresh_minutes" mapstructure:"refresh_minutes"` // descriptor cache freshness window
}

// DiscoveryConfig defines which model workbooks to extract.
type DiscoveryConfig struct {
	StageDirs   []string `yaml:"stage_dirs" mapstructure:"stage_dirs"`     // deal stage directories to scan
	ModelSubdir string   `yaml:"model_subdir" mapstructure:"model_subdir"` // required path component, "" disables
	Extensions  []string `yaml:"extensions" mapstructure:"extensions"`     // workbook extensions, with leading dot
	Includes    []string `yaml:"includes" mapstructure:"includes"`         // filename must contain every substring
	Excludes    []string `yaml:"excludes" mapstructure:"excludes"`         // filename must contain no substring
	MinModified string   `yaml:"min_modified" mapstructure:"min_modified"` // YYYY-MM-DD cutoff, "" disables
	Ignore      []string `yaml:"ignore" mapstructure:"ignore"`             // glob patterns to skip
}

// StorageConfig defines where extracted records are stored.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"` // SQLite database file path
	Table        string `yaml:"table" mapstructure:"table"`                 // destination table name
}

// ScanConfig tunes extraction runs.
type ScanConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers"`         // concurrent workbook workers, 0 means NumCPU
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // watch mode debounce window in milliseconds
}

// Default returns a configuration with sensible defaults.
// The reference table path and stage directories have no usable default
// and must come from the config file or environment.
func Default() *Config {
	return &Config{
		Reference: ReferenceConfig{
			Sheet:          "UW Model - Cell Reference Table",
			RefColumn:      "Values Reference Range",
			NameColumn:     "DataFrame Column Names",
			RefreshMinutes: 10,
		},
		Discovery: DiscoveryConfig{
			ModelSubdir: "UW Model",
			Extensions:  []string{".xlsb", ".xlsm"},
			Includes:    []string{"UW Model vCurrent"},
			Excludes:    []string{"Speedboat"},
			Ignore: []string{
				// Office lock files, at any depth
				"~$*",
				"**/~$*",
			},
		},
		Storage: StorageConfig{
			DatabasePath: "database/underwriting_models.db",
			Table:        storage.DefaultTable,
		},
		Scan: ScanConfig{
			Workers:    0,
			DebounceMs: 500,
		},
	}
}

// TableConfig converts the reference section into the table loader's form.
func (c *Config) TableConfig() refspec.TableConfig {
	return refspec.TableConfig{
		Path:       c.Reference.Path,
		Sheet:      c.Reference.Sheet,
		RefColumn:  c.Reference.RefColumn,
		NameColumn: c.Reference.NameColumn,
	}
}

// FinderCriteria converts the discovery section into finder criteria.
// Assumes the configuration has already been validated.
func (c *Config) FinderCriteria() discovery.Criteria {
	criteria := discovery.Criteria{
		StageDirs:   c.Discovery.StageDirs,
		ModelSubdir: c.Discovery.ModelSubdir,
		Extensions:  c.Discovery.Extensions,
		Includes:    c.Discovery.Includes,
		Excludes:    c.Discovery.Excludes,
		Ignore:      c.Discovery.Ignore,
	}
	if c.Discovery.MinModified != "" {
		if t, err := time.Parse("2006-01-02", c.Discovery.MinModified); err == nil {
			criteria.MinModified = t
		}
	}
	return criteria
}

// RefreshTTL returns the descriptor cache freshness window.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.Reference.RefreshMinutes) * time.Minute
}

// Debounce returns the watch mode debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Scan.DebounceMs) * time.Millisecond
}
