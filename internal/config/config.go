// Package config loads the toolkit CLI's own settings using Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/merge"
	"github.com/donygeorge/claude-toolkit/internal/paths"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CLAUDE_TOOLKIT"

// Config represents the top-level configuration structure.
type Config struct {
	Version      int                `mapstructure:"version" yaml:"version"`
	ToolkitDir   string             `mapstructure:"toolkit_dir" yaml:"toolkit_dir"`
	StacksDir    string             `mapstructure:"stacks_dir" yaml:"stacks_dir,omitempty"`
	Merge        MergeConfig        `mapstructure:"merge" yaml:"merge"`
	Pricing      PricingConfig      `mapstructure:"pricing" yaml:"pricing"`
	SmartContext SmartContextConfig `mapstructure:"smart_context" yaml:"smart_context"`
}

// MergeConfig names the fields that steer the settings merge.
type MergeConfig struct {
	KeyField    string `mapstructure:"key_field" yaml:"key_field"`
	ConcatField string `mapstructure:"concat_field" yaml:"concat_field"`
	RegistryKey string `mapstructure:"registry_key" yaml:"registry_key"`
}

// PricingConfig holds per-million-token prices in USD.
type PricingConfig struct {
	Input      float64 `mapstructure:"input" yaml:"input"`
	Output     float64 `mapstructure:"output" yaml:"output"`
	CacheWrite float64 `mapstructure:"cache_write" yaml:"cache_write"`
	CacheRead  float64 `mapstructure:"cache_read" yaml:"cache_read"`
}

// SmartContextConfig configures the keyword context hook.
type SmartContextConfig struct {
	ContextDir string `mapstructure:"context_dir" yaml:"context_dir"`
	Suffix     string `mapstructure:"suffix" yaml:"suffix"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
}

// Init resets Viper and registers defaults, search paths, and env binding.
// Call it once at startup, before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	defaults := merge.DefaultOptions()
	viper.SetDefault("version", 1)
	viper.SetDefault("toolkit_dir", paths.DefaultToolkitDir)
	viper.SetDefault("stacks_dir", "")
	viper.SetDefault("merge.key_field", defaults.KeyField)
	viper.SetDefault("merge.concat_field", defaults.ConcatField)
	viper.SetDefault("merge.registry_key", defaults.RegistryKey)
	viper.SetDefault("pricing.input", 15.0)
	viper.SetDefault("pricing.output", 75.0)
	viper.SetDefault("pricing.cache_write", 18.75)
	viper.SetDefault("pricing.cache_read", 1.50)
	viper.SetDefault("smart_context.context_dir", paths.DefaultContextDir)
	viper.SetDefault("smart_context.suffix", "-domain.md")
	viper.SetDefault("smart_context.max_size", 8192)
}

// Load reads the configuration file. An explicit path must exist; with an
// empty path a missing file just means defaults. The result is validated.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		case path != "" && os.IsNotExist(err):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, errors.Mark(errors.Newf("validating config: %s", strings.Join(msgs, "; ")), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Default returns the configuration produced by Init with no file and no
// environment overrides.
func Default() *Config {
	defaults := merge.DefaultOptions()
	return &Config{
		Version:    1,
		ToolkitDir: paths.DefaultToolkitDir,
		Merge: MergeConfig{
			KeyField:    defaults.KeyField,
			ConcatField: defaults.ConcatField,
			RegistryKey: defaults.RegistryKey,
		},
		Pricing: PricingConfig{Input: 15, Output: 75, CacheWrite: 18.75, CacheRead: 1.50},
		SmartContext: SmartContextConfig{
			ContextDir: paths.DefaultContextDir,
			Suffix:     "-domain.md",
			MaxSize:    8192,
		},
	}
}

// FileUsed returns the config file Load read, or "" when defaults were used.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// MergeOptions converts the merge section for the merge engine.
func (c *Config) MergeOptions() merge.Options {
	return merge.Options{
		KeyField:    c.Merge.KeyField,
		ConcatField: c.Merge.ConcatField,
		RegistryKey: c.Merge.RegistryKey,
	}
}

// ToolkitPath resolves the toolkit subtree for a project root.
func (c *Config) ToolkitPath(root string) string {
	return paths.ToolkitDir(root, c.ToolkitDir)
}

// StacksPath resolves the stack overlay directory for a project root.
// An empty stacks_dir means <toolkit_dir>/templates/stacks.
func (c *Config) StacksPath(root string) string {
	if c.StacksDir == "" {
		return paths.StacksDir(c.ToolkitPath(root))
	}
	if filepath.IsAbs(c.StacksDir) {
		return c.StacksDir
	}
	return filepath.Join(root, c.StacksDir)
}
