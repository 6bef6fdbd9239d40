package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

func TestValidate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		errs := Validate(nil)
		assert.Len(t, errs, 1)
	})

	t.Run("default is valid", func(t *testing.T) {
		assert.Empty(t, Validate(Default()))
	})

	t.Run("collects every problem in order", func(t *testing.T) {
		cfg := Default()
		cfg.Version = 0
		cfg.ToolkitDir = "bad\x00dir"
		cfg.Merge.ConcatField = " "
		cfg.Pricing.CacheRead = -0.5

		errs := Validate(cfg)
		if assert.Len(t, errs, 4) {
			assert.Equal(t, "merge.concat_field: must not be empty", errs[0].Error())
			assert.Equal(t, "pricing.cache_read: must not be negative: -0.5", errs[1].Error())
			assert.True(t, errors.Is(errs[2], ErrInvalidPath))
			assert.Equal(t, "unsupported config version: 0", errs[3].Error())
		}
	})
}

func TestFieldError(t *testing.T) {
	err := &FieldError{Field: "stacks_dir", Value: "x", Err: ErrInvalidPath}
	assert.Equal(t, "stacks_dir: invalid path: x", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidPath))

	noValue := &FieldError{Field: "merge.key_field", Err: ErrEmptyField}
	assert.Equal(t, "merge.key_field: must not be empty", noValue.Error())
}
