package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brcap/uwscan/internal/config"
)

var rootDirFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uwscan",
	Short: "Extract structured data from underwriting model workbooks",
	Long: `uwscan resolves a declarative cell reference table against a tree of
underwriting model workbooks (.xlsb and .xlsm) and loads the extracted
values into a SQLite database, one row per workbook.

Configuration lives in .uwscan/config.yml, with UWSCAN_* environment
variable overrides.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDirFlag, "root", "", "directory containing .uwscan/config.yml (default is the working directory)")
}

// loadConfig loads and validates the configuration for the selected root.
func loadConfig() (*config.Config, error) {
	rootDir := rootDirFlag
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		rootDir = wd
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
