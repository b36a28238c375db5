package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (UWSCAN_*)
// 2. Config file (.uwscan/config.yml or .uwscan/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// Configure viper
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, ".uwscan")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("UWSCAN")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., UWSCAN_REFERENCE_PATH)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	// Reference table configuration
	v.BindEnv("reference.path")
	v.BindEnv("reference.sheet")
	v.BindEnv("reference.ref_column")
	v.BindEnv("reference.name_column")
	v.BindEnv("reference.refresh_minutes")

	// Discovery configuration
	v.BindEnv("discovery.model_subdir")
	v.BindEnv("discovery.min_modified")

	// Storage configuration
	v.BindEnv("storage.database_path")
	v.BindEnv("storage.table")

	// Scan configuration
	v.BindEnv("scan.workers")
	v.BindEnv("scan.debounce_ms")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Some other error occurred while reading the config file
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Reference table defaults
	v.SetDefault("reference.sheet", defaults.Reference.Sheet)
	v.SetDefault("reference.ref_column", defaults.Reference.RefColumn)
	v.SetDefault("reference.name_column", defaults.Reference.NameColumn)
	v.SetDefault("reference.refresh_minutes", defaults.Reference.RefreshMinutes)

	// Discovery defaults
	v.SetDefault("discovery.model_subdir", defaults.Discovery.ModelSubdir)
	v.SetDefault("discovery.extensions", defaults.Discovery.Extensions)
	v.SetDefault("discovery.includes", defaults.Discovery.Includes)
	v.SetDefault("discovery.excludes", defaults.Discovery.Excludes)
	v.SetDefault("discovery.ignore", defaults.Discovery.Ignore)

	// Storage defaults
	v.SetDefault("storage.database_path", defaults.Storage.DatabasePath)
	v.SetDefault("storage.table", defaults.Storage.Table)

	// Scan defaults
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("scan.debounce_ms", defaults.Scan.DebounceMs)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
