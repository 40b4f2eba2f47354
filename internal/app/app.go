package app

import (
	"io"
	"log/slog"

	"github.com/vk/flagfile/internal/registry"
)

// App encapsulates the resolution pipeline's dependencies: the tool's
// configuration, its field registry, and an isolated logger.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
}

// New is the constructor for the resolution pipeline. The registry must
// already be validated (registry.New does this eagerly); App borrows it
// read-only for every Resolve call.
func New(outW io.Writer, cfg *Config, reg *registry.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
