package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingReferencePath indicates no reference workbook was configured
	ErrMissingReferencePath = errors.New("missing reference path")

	// ErrInvalidReference indicates invalid reference table configuration
	ErrInvalidReference = errors.New("invalid reference configuration")

	// ErrMissingStageDirs indicates no stage directories were configured
	ErrMissingStageDirs = errors.New("missing stage directories")

	// ErrInvalidExtension indicates a malformed workbook extension
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrInvalidDate indicates a malformed minimum modified date
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidStorage indicates invalid storage configuration
	ErrInvalidStorage = errors.New("invalid storage configuration")

	// ErrInvalidScan indicates invalid scan tuning
	ErrInvalidScan = errors.New("invalid scan configuration")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	// Validate reference table configuration
	if err := validateReference(&cfg.Reference); err != nil {
		errs = append(errs, err)
	}

	// Validate discovery configuration
	if err := validateDiscovery(&cfg.Discovery); err != nil {
		errs = append(errs, err)
	}

	// Validate storage configuration
	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err)
	}

	// Validate scan configuration
	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateReference(cfg *ReferenceConfig) error {
	var errs []error

	// Validate path
	if strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: reference.path is required", ErrMissingReferencePath))
	}

	// Validate sheet and column headers
	if strings.TrimSpace(cfg.Sheet) == "" {
		errs = append(errs, fmt.Errorf("%w: reference.sheet is required", ErrInvalidReference))
	}
	if strings.TrimSpace(cfg.RefColumn) == "" {
		errs = append(errs, fmt.Errorf("%w: reference.ref_column is required", ErrInvalidReference))
	}
	if strings.TrimSpace(cfg.NameColumn) == "" {
		errs = append(errs, fmt.Errorf("%w: reference.name_column is required", ErrInvalidReference))
	}

	// Validate refresh window (zero disables caching, negative is invalid)
	if cfg.RefreshMinutes < 0 {
		errs = append(errs, fmt.Errorf("%w: refresh_minutes cannot be negative, got %d", ErrInvalidReference, cfg.RefreshMinutes))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateDiscovery(cfg *DiscoveryConfig) error {
	var errs []error

	// Validate stage directories
	if len(cfg.StageDirs) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one stage directory required", ErrMissingStageDirs))
	}

	// Validate extensions
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("%w: %q must start with a dot", ErrInvalidExtension, ext))
		}
	}

	// Validate minimum modified date
	if cfg.MinModified != "" {
		if _, err := time.Parse("2006-01-02", cfg.MinModified); err != nil {
			errs = append(errs, fmt.Errorf("%w: min_modified must be YYYY-MM-DD, got %q", ErrInvalidDate, cfg.MinModified))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateStorage(cfg *StorageConfig) error {
	var errs []error

	// Validate database path
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		errs = append(errs, fmt.Errorf("%w: database_path is required", ErrInvalidStorage))
	}

	// Validate table name
	if strings.TrimSpace(cfg.Table) == "" {
		errs = append(errs, fmt.Errorf("%w: table is required", ErrInvalidStorage))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	// Validate workers (zero means NumCPU, negative is invalid)
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidScan, cfg.Workers))
	}

	// Validate debounce window
	if cfg.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidScan, cfg.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
