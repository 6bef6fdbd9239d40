package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrEmptyField indicates a required field was set to the empty string.
	ErrEmptyField = errors.New("must not be empty")

	// ErrNegative indicates a numeric field below zero.
	ErrNegative = errors.New("must not be negative")
)

// Validate checks a Config and returns every problem found.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("unsupported config version: %d", cfg.Version))
	}

	for field, p := range map[string]string{
		"toolkit_dir":               cfg.ToolkitDir,
		"stacks_dir":                cfg.StacksDir,
		"smart_context.context_dir": cfg.SmartContext.ContextDir,
	} {
		if err := validatePath(p); err != nil {
			errs = append(errs, &FieldError{Field: field, Value: p, Err: err})
		}
	}

	for _, f := range []struct {
		name  string
		value string
	}{
		{"merge.key_field", cfg.Merge.KeyField},
		{"merge.concat_field", cfg.Merge.ConcatField},
		{"merge.registry_key", cfg.Merge.RegistryKey},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, &FieldError{Field: f.name, Err: ErrEmptyField})
		}
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"pricing.input", cfg.Pricing.Input},
		{"pricing.output", cfg.Pricing.Output},
		{"pricing.cache_write", cfg.Pricing.CacheWrite},
		{"pricing.cache_read", cfg.Pricing.CacheRead},
	} {
		if f.value < 0 {
			errs = append(errs, &FieldError{Field: f.name, Value: fmt.Sprint(f.value), Err: ErrNegative})
		}
	}

	if cfg.SmartContext.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("smart_context.max_size must be positive, got %d", cfg.SmartContext.MaxSize))
	}

	slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return errs
}

// validatePath checks that a path string is well-formed. Empty means default.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if cleaned := filepath.Clean(path); cleaned == "" {
		return ErrInvalidPath
	}
	return nil
}

// FieldError reports a problem with one configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
