package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/flagfile/internal/cli"
	"github.com/vk/flagfile/internal/ctxlog"
	"github.com/vk/flagfile/internal/decode"
	"github.com/vk/flagfile/internal/discovery"
	"github.com/vk/flagfile/internal/resolver"
)

// Resolution bundles the resolved configuration with everything the caller
// may want to report: the file that was used (if any), the format the raw
// config string committed to, and leftover positional arguments.
type Resolution struct {
	Config    *resolver.Resolved
	File      discovery.Result
	RawFormat decode.Format
	Rest      []string
}

// Resolve runs the full pipeline for one invocation: parse the command
// line, honor the reserved engine flags, discover and decode the config
// file, decode the raw config string, and merge. The boolean mirrors
// cli.Parse: true means help was printed and the process should exit
// cleanly.
func (a *App) Resolve(ctx context.Context, args []string) (*Resolution, bool, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	cliResult, shouldExit, err := cli.Parse(args, a.registry, a.config.ToolName, a.outW)
	if err != nil || shouldExit {
		return nil, shouldExit, err
	}
	logger.Debug("Command line parsed.", "explicit_flags", len(cliResult.Presence), "rest", len(cliResult.Rest))

	var (
		fileInput *resolver.FileInput
		rawInput  *resolver.RawInput
		used      discovery.Result
		rawFormat decode.Format
	)

	if cliResult.Engine.NoConfig {
		logger.Debug("Config sources suppressed by --no-config.")
	} else {
		used, err = a.locateFile(ctx, cliResult.Engine)
		if err != nil {
			return nil, false, err
		}
		if used.Found {
			fileInput, err = a.loadFile(ctx, used)
			if err != nil {
				return nil, false, err
			}
		}

		if cliResult.Engine.RawConfig != "" {
			tree, format, err := decode.ParseAuto(ctx, cliResult.Engine.RawConfig)
			if err != nil {
				return nil, false, err
			}
			rawInput = &resolver.RawInput{Tree: tree, Format: format}
			rawFormat = format
		}
	}

	resolved, err := resolver.Resolve(ctx, a.registry, cliResult.Presence, fileInput, rawInput)
	if err != nil {
		return nil, false, err
	}

	return &Resolution{
		Config:    resolved,
		File:      used,
		RawFormat: rawFormat,
		Rest:      cliResult.Rest,
	}, false, nil
}

// locateFile picks the config file for this invocation: the explicit
// --config-file path verbatim, or the result of upward discovery.
func (a *App) locateFile(ctx context.Context, engine cli.Engine) (discovery.Result, error) {
	if engine.ConfigFile != "" {
		return discovery.Explicit(engine.ConfigFile, "")
	}
	return discovery.Discover(ctx, a.config.BaseName, a.config.Formats, a.config.StartDir)
}

// loadFile reads and decodes the selected config file. The file handle is
// scoped to the read; nothing stays open after return.
func (a *App) loadFile(ctx context.Context, used discovery.Result) (*resolver.FileInput, error) {
	data, err := os.ReadFile(used.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", used.Path, err)
	}

	tree, err := decode.Parse(ctx, used.Format, data)
	if err != nil {
		var pe *decode.ParseError
		if errors.As(err, &pe) {
			pe.Path = used.Path
		}
		return nil, err
	}
	return &resolver.FileInput{Tree: tree, Path: used.Path, Format: used.Format}, nil
}
