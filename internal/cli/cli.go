package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/flagfile/internal/registry"
	"github.com/vk/flagfile/internal/resolver"
	"github.com/vk/flagfile/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Engine holds the values of the engine-owned reserved flags.
type Engine struct {
	// ConfigFile is an explicit config file path; it bypasses discovery.
	ConfigFile string
	// NoConfig suppresses both the file and raw config sources.
	NoConfig bool
	// RawConfig is the inline raw configuration text from --config.
	RawConfig string
}

// Result is the outcome of parsing the command line against a registry.
type Result struct {
	// Presence holds only the flags the user explicitly supplied, keyed
	// by field name, with raw pre-conversion values.
	Presence resolver.Presence
	Engine   Engine
	// Rest carries leftover positional arguments, untouched.
	Rest []string
}

// listValue accumulates repeated occurrences of a list flag.
type listValue struct {
	values []string
}

func (v *listValue) String() string {
	return strings.Join(v.values, ",")
}

func (v *listValue) Set(s string) error {
	v.values = append(v.values, s)
	return nil
}

// Parse processes command-line arguments against the registry's
// CLI-visible fields. It returns the parse result, a boolean indicating
// that the program should exit cleanly (help was requested), or an
// ExitError.
func Parse(args []string, reg *registry.Registry, toolName string, output io.Writer) (*Result, bool, error) {
	flagSet := flag.NewFlagSet(toolName, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  %s [options] [arguments]\n\nOptions:\n", toolName)
		flagSet.PrintDefaults()
	}

	var engine Engine
	flagSet.StringVar(&engine.ConfigFile, "config-file", "", "Path to an explicit config file, bypassing discovery.")
	flagSet.BoolVar(&engine.NoConfig, "no-config", false, "Ignore config files and inline raw config entirely.")
	flagSet.StringVar(&engine.RawConfig, "config", "", "Inline raw configuration text (JSON, YAML, or TOML).")

	// flagToField maps every registered flag name, long and short alike,
	// back to its field so presence capture sees one name per field.
	flagToField := make(map[string]string)
	lists := make(map[string]*listValue)
	for _, field := range reg.Fields() {
		if !field.Source.AcceptsCLI() {
			continue
		}
		registerField(flagSet, field, flagToField, lists)
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	presence := make(resolver.Presence)
	flagSet.Visit(func(f *flag.Flag) {
		fieldName, ok := flagToField[f.Name]
		if !ok {
			return // engine-owned flag
		}
		if lv, isList := lists[fieldName]; isList {
			presence[fieldName] = append([]string(nil), lv.values...)
			return
		}
		presence[fieldName] = []string{f.Value.String()}
	})

	return &Result{
		Presence: presence,
		Engine:   engine,
		Rest:     flagSet.Args(),
	}, false, nil
}

// registerField adds the long flag (and optional short alias) for one
// field. Long and short share storage, so either spelling feeds the same
// captured value.
func registerField(flagSet *flag.FlagSet, field *schema.Field, flagToField map[string]string, lists map[string]*listValue) {
	help := field.Help
	if field.Default != nil && !field.Default.IsNull() {
		help = strings.TrimSpace(help + fmt.Sprintf(" (default %s)", defaultText(*field.Default)))
	}

	names := []string{field.Name}
	if field.Short != "" {
		names = append(names, field.Short)
	}

	switch {
	case field.IsList():
		lv := &listValue{}
		lists[field.Name] = lv
		for _, name := range names {
			flagSet.Var(lv, name, help)
		}
	case field.Type == cty.Bool:
		var b bool
		for _, name := range names {
			flagSet.BoolVar(&b, name, false, help)
		}
	default:
		var s string
		for _, name := range names {
			flagSet.StringVar(&s, name, "", help)
		}
	}

	for _, name := range names {
		flagToField[name] = field.Name
	}
}

// defaultText renders a declared default for the usage line.
func defaultText(v cty.Value) string {
	switch v.Type() {
	case cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		return v.AsBigFloat().Text('g', -1)
	default:
		return v.GoString()
	}
}
