package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/wonderfulspam/shapesmith/pkg/loader"
	"github.com/wonderfulspam/shapesmith/pkg/scorer"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// SHAPESMITH_SCORING_REMOVED=50 or SHAPESMITH_LIMITS_MAX_DEPTH=64.
const EnvPrefix = "SHAPESMITH_"

// DefaultPaths are searched in order when no config path is given.
var DefaultPaths = []string{"./shapesmith.toml", "$HOME/.shapesmith.toml"}

// Config represents the application configuration
type Config struct {
	Scoring scorer.Weights `koanf:"scoring" yaml:"scoring"`

	Limits struct {
		MaxBytes int64 `koanf:"max_bytes" yaml:"max_bytes"`
		MaxDepth int   `koanf:"max_depth" yaml:"max_depth"`
	} `koanf:"limits" yaml:"limits"`

	Output struct {
		Format    string `koanf:"format" yaml:"format"`
		Color     string `koanf:"color" yaml:"color"`
		FailAbove int    `koanf:"fail_above" yaml:"fail_above"`
	} `koanf:"output" yaml:"output"`
}

func defaults() map[string]interface{} {
	w := scorer.DefaultWeights()
	return map[string]interface{}{
		"scoring.removed":      w.Removed,
		"scoring.structural":   w.Structural,
		"scoring.incompatible": w.Incompatible,
		"scoring.compatible":   w.Compatible,
		"scoring.added":        w.Added,
		"scoring.decay":        w.Decay,
		"limits.max_bytes":     int64(32 << 20),
		"limits.max_depth":     512,
		"output.format":        "table",
		"output.color":         "auto",
		"output.fail_above":    -1,
	}
}

// Default returns the built-in configuration, ignoring any config file
// and the environment.
func Default() (*Config, error) {
	return load(koanf.New("."), "", false)
}

// Load builds the configuration from defaults, a TOML file and the
// environment, in increasing order of precedence. An empty path searches
// DefaultPaths.
func Load(configPath string) (*Config, error) {
	return load(koanf.New("."), configPath, true)
}

func load(k *koanf.Koanf, configPath string, external bool) (*Config, error) {
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if external {
		if configPath != "" {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config: %w", err)
			}
		} else {
			for _, path := range DefaultPaths {
				path = os.ExpandEnv(path)
				if _, err := os.Stat(path); err == nil {
					if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
						return nil, fmt.Errorf("error loading config %s: %w", path, err)
					}
					break
				}
			}
		}

		// SHAPESMITH_LIMITS_MAX_DEPTH -> limits.max_depth
		if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
			return strings.Replace(key, "_", ".", 1)
		}), nil); err != nil {
			return nil, fmt.Errorf("error loading environment: %w", err)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func Validate(config *Config) error {
	if err := config.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	if config.Limits.MaxBytes < 0 {
		return fmt.Errorf("limits: max_bytes must not be negative")
	}
	if config.Limits.MaxDepth < 0 {
		return fmt.Errorf("limits: max_depth must not be negative")
	}

	switch config.Output.Format {
	case "table", "json", "yaml", "msgpack":
	default:
		return fmt.Errorf("output: unsupported format %q (supported: table, json, yaml, msgpack)", config.Output.Format)
	}

	switch config.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output: color must be auto, always or never, got %q", config.Output.Color)
	}

	if config.Output.FailAbove > 100 {
		return fmt.Errorf("output: fail_above must be at most 100, got %d", config.Output.FailAbove)
	}

	return nil
}

// LoaderOptions returns the document loading options implied by the limits.
func (c *Config) LoaderOptions() loader.Options {
	return loader.Options{
		Format:   loader.FormatAuto,
		MaxBytes: c.Limits.MaxBytes,
		MaxDepth: c.Limits.MaxDepth,
	}
}

// InitConfig writes a sample configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# Shapesmith Configuration

# Raw points per change. The total is saturated as
# 100 * (1 - e^(-total / decay)) and rounded.
[scoring]
removed = 40
structural = 35    # type change involving an object or array
incompatible = 25  # e.g. boolean <-> number
compatible = 15    # string <-> number, or anything <-> null
added = 5
decay = 50.0

# Inputs beyond these limits are rejected before comparison. max_bytes = 0
# disables the size check; max_depth = 0 falls back to 10000 levels.
[limits]
max_bytes = 33554432
max_depth = 512

[output]
format = "table"   # table, json, yaml, msgpack
color = "auto"     # auto, always, never
fail_above = -1    # exit non-zero when the score is above this (-1 disables)
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}
