package config

import (
	"fmt"
)

// RunLogConfig defines settings for prediction run-log storage.
type RunLogConfig struct {
	// Backend selects the store type: "none", "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *RunLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		c.Path = "predictions.log"
	}
}

// Validate checks mandatory fields.
func (c RunLogConfig) Validate() error {
	switch c.Backend {
	case "none", "jsonl", "sqlite":
	default:
		return fmt.Errorf("unknown runlog backend %s", c.Backend)
	}
	if c.Backend != "none" && c.Path == "" {
		return fmt.Errorf("runlog path is required")
	}
	return nil
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	// Level filters log output: "debug", "info", "warn", "error".
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level is known.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %s", c.Level)
}
