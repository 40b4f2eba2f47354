package app

import (
	"errors"

	"github.com/vk/flagfile/internal/decode"
)

// Config holds everything an App needs to resolve a tool's configuration.
type Config struct {
	// ToolName labels the flag set and usage output.
	ToolName string
	// BaseName is the config file base name searched for during
	// discovery, e.g. "app-config" matches app-config.yaml.
	BaseName string
	// Formats lists the allowed discovery formats in preference order.
	// Empty means YAML only.
	Formats []decode.Format
	// StartDir is where discovery begins; empty means the process
	// working directory.
	StartDir string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ToolName == "" {
		return nil, errors.New("ToolName is a required configuration field and cannot be empty")
	}
	if cfg.BaseName == "" {
		return nil, errors.New("BaseName is a required configuration field and cannot be empty")
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []decode.Format{decode.YAML}
	}

	return &cfg, nil
}
