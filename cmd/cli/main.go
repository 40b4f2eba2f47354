package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/flagfile/internal/app"
	"github.com/vk/flagfile/internal/cli"
	"github.com/vk/flagfile/internal/decode"
	"github.com/vk/flagfile/internal/discovery"
	"github.com/vk/flagfile/internal/registry"
	"github.com/vk/flagfile/internal/resolver"
	"github.com/vk/flagfile/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// demoConfig is the sample tool's final typed configuration, populated
// from the resolved values via flagfile tags.
type demoConfig struct {
	Port          int      `flagfile:"port" yaml:"port"`
	Debug         bool     `flagfile:"debug" yaml:"debug"`
	Verbose       bool     `flagfile:"verbose" yaml:"verbose"`
	DatabaseURL   string   `flagfile:"database-url" yaml:"database-url"`
	IgnoredFiles  []string `flagfile:"ignored-files" yaml:"ignored-files"`
	OverwriteList []string `flagfile:"overwrite-list" yaml:"overwrite-list"`
}

// demoRegistry declares the sample schema: every source policy and both
// list merge policies are represented.
func demoRegistry() (*registry.Registry, error) {
	def := func(v cty.Value) *cty.Value { return &v }
	return registry.New(
		&schema.Field{
			Name: "port", Type: cty.Number, Source: schema.CliAndConfig,
			Short: "p", Default: def(cty.NumberIntVal(8080)),
			Help: "Port the tool listens on.",
		},
		&schema.Field{
			Name: "debug", Type: cty.Bool, Source: schema.CliAndConfig,
			Default: def(cty.False),
			Help:    "Enable debug behavior.",
		},
		&schema.Field{
			Name: "verbose", Type: cty.Bool, Source: schema.CliOnly,
			Short: "v", Default: def(cty.False),
			Help: "Verbose output. Never read from config data.",
		},
		&schema.Field{
			Name: "database-url", Type: cty.String, Source: schema.ConfigOnly,
			Default: def(cty.StringVal("")),
			Help:    "Database connection string. Never read from the command line.",
		},
		&schema.Field{
			Name: "ignored-files", Type: cty.List(cty.String), Source: schema.CliAndConfig,
			MultiValue: schema.Extend,
			Help:       "Files to ignore. Config and CLI lists are concatenated.",
		},
		&schema.Field{
			Name: "overwrite-list", Type: cty.List(cty.String), Source: schema.CliAndConfig,
			MultiValue: schema.Overwrite,
			Help:       "List where the highest-precedence source wins outright.",
		},
	)
}

// main is the entrypoint for the flagfile demo tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)

		// Ambiguous config file layouts get their own exit code so
		// scripts can tell them apart from ordinary failures.
		var conflict *discovery.ConflictError
		if errors.As(err, &conflict) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	appConfig, err := app.NewConfig(app.Config{
		ToolName:  "flagfile",
		BaseName:  "flagfile",
		Formats:   []decode.Format{decode.YAML, decode.JSON, decode.TOML, decode.HCL},
		LogFormat: "text",
		LogLevel:  os.Getenv("FLAGFILE_LOG_LEVEL"),
	})
	if err != nil {
		return err
	}

	reg, err := demoRegistry()
	if err != nil {
		return err
	}

	flagfileApp := app.New(outW, appConfig, reg)
	resolution, shouldExit, err := flagfileApp.Resolve(context.Background(), args)
	if err != nil || shouldExit {
		return err
	}

	return report(outW, resolution)
}

// report prints the final configuration as YAML, followed by per-field
// provenance and the file that was used, mirroring what users need to
// debug a surprising merge.
func report(outW io.Writer, resolution *app.Resolution) error {
	var cfg demoConfig
	if err := resolution.Config.Decode(&cfg); err != nil {
		return err
	}

	fmt.Fprintln(outW, "Final configuration:")
	enc := yaml.NewEncoder(outW)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	fmt.Fprintln(outW, "Sources:")
	for _, name := range resolution.Config.Names() {
		prov, _ := resolution.Config.Provenance(name)
		fmt.Fprintf(outW, "  %s: %s\n", name, provenanceText(prov))
	}

	if resolution.File.Found {
		fmt.Fprintf(outW, "Loaded config from: %s (%s)\n", resolution.File.Path, resolution.File.Format)
	} else {
		fmt.Fprintln(outW, "No config file used")
	}
	if len(resolution.Rest) > 0 {
		fmt.Fprintf(outW, "Received commands: %v\n", resolution.Rest)
	}
	return nil
}

func provenanceText(prov resolver.Provenance) string {
	if prov.Origin != resolver.OriginMerged {
		return string(prov.Origin)
	}
	parts := make([]string, 0, len(prov.Contributors))
	for _, c := range prov.Contributors {
		parts = append(parts, string(c))
	}
	return "merged from " + strings.Join(parts, "+")
}
