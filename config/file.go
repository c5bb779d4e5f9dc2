package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/poiesic/uidmap/storage"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with pointer fields so absent keys can be told
// apart from zero values.
type fileConfig struct {
	SourceDir     *string `yaml:"source_dir" toml:"source_dir"`
	Pattern       *string `yaml:"pattern" toml:"pattern"`
	FallbackToCWD *bool   `yaml:"fallback_to_cwd" toml:"fallback_to_cwd"`
	StorePath     *string `yaml:"store_path" toml:"store_path"`
	Backend       *string `yaml:"backend" toml:"backend"`
	BatchSize     *int    `yaml:"batch_size" toml:"batch_size"`
	MetricsFile   *string `yaml:"metrics_file" toml:"metrics_file"`
	Region        *string `yaml:"region" toml:"region"`
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file and returns
// DefaultConfig overlaid with the keys the file sets. The result is not
// validated; callers apply flag overrides first and then call Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return nil, fmt.Errorf("%w: unsupported config file extension %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}

	cfg := DefaultConfig()
	cfg.Apply(fc.options()...)
	return cfg, nil
}

func (fc *fileConfig) options() []Option {
	var opts []Option
	if fc.SourceDir != nil {
		opts = append(opts, WithSourceDir(*fc.SourceDir))
	}
	if fc.Pattern != nil {
		opts = append(opts, WithPattern(*fc.Pattern))
	}
	if fc.FallbackToCWD != nil {
		opts = append(opts, WithFallbackToCWD(*fc.FallbackToCWD))
	}
	if fc.StorePath != nil {
		opts = append(opts, WithStorePath(*fc.StorePath))
	}
	if fc.Backend != nil {
		opts = append(opts, WithBackend(storage.Backend(*fc.Backend)))
	}
	if fc.BatchSize != nil {
		opts = append(opts, WithBatchSize(*fc.BatchSize))
	}
	if fc.MetricsFile != nil {
		opts = append(opts, WithMetricsFile(*fc.MetricsFile))
	}
	if fc.Region != nil {
		opts = append(opts, WithRegion(*fc.Region))
	}
	return opts
}
