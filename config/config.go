package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"statpredict/core/metrics"
)

// EngineConfig holds prediction defaults applied when a request leaves an
// option unset.
type EngineConfig struct {
	// Level is the default confidence level.
	Level float64 `json:"level"`
	// Replicates is the default bootstrap replicate count; 0 disables
	// resampling.
	Replicates int `json:"replicates"`
	// Workers caps resampling concurrency; 0 means GOMAXPROCS.
	Workers int `json:"workers"`
	// Seed fixes the resampling RNG; 0 draws from the clock.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *EngineConfig) SetDefaults() {
	if c.Level == 0 {
		c.Level = 0.95
	}
}

// Validate checks ranges.
func (c EngineConfig) Validate() error {
	if c.Level <= 0 || c.Level > 1 {
		return fmt.Errorf("level must be in (0,1], got %v", c.Level)
	}
	if c.Replicates < 0 {
		return fmt.Errorf("replicates must be non-negative")
	}
	return nil
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Config is the root configuration.
type Config struct {
	Engine  EngineConfig   `json:"engine"`
	Logging LoggingConfig  `json:"logging"`
	Metrics metrics.Config `json:"metrics"`
	RunLog  RunLogConfig   `json:"runlog"`
	Server  ServerConfig   `json:"server"`
}

// Load reads a JSON or YAML configuration file, applies SP_ environment
// overrides, fills defaults and validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.RunLog.SetDefaults()
	cfg.Server.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RunLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
