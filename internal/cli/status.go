package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brcap/uwscan/internal/storage"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database contents and the most recent run",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DatabasePath, cfg.Storage.Table)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	summary, err := store.Summary()
	if err != nil {
		return fmt.Errorf("failed to read database summary: %w", err)
	}

	fmt.Printf("Database: %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("Table:    %s\n", cfg.Storage.Table)
	fmt.Printf("Records:  %s\n", formatNumber(summary.Records))
	fmt.Printf("Columns:  %s\n", formatNumber(summary.Columns))

	if summary.LastRun == nil {
		fmt.Println("Last run: never")
		return nil
	}

	run := summary.LastRun
	fmt.Printf("Last run: %s (run %s)\n", run.FinishedAt.Format("2006-01-02 15:04:05"), run.RunID)
	fmt.Printf("  Processed: %d files\n", run.FilesProcessed)
	fmt.Printf("  Skipped:   %d files\n", run.FilesSkipped)
	fmt.Printf("  Missing:   %d fields\n", run.FieldsMissing)
	return nil
}

// formatNumber formats integer with thousand separators.
// Examples: 1234 -> "1,234", 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Simple implementation for thousands/millions
	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
