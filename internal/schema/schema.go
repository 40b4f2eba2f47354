// Package schema defines the field descriptor data model consumed by the
// resolver. A caller declares its settings as an ordered list of Field
// values; how that list is authored (builder calls, code generation,
// reflection) is outside this package's concern.
package schema

import "github.com/zclconf/go-cty/cty"

// Source controls which inputs are eligible to supply a field's value.
type Source int

const (
	// CliAndConfig fields may come from the command line, a config file,
	// or an inline raw configuration string.
	CliAndConfig Source = iota

	// CliOnly fields are never read from a config file or raw config data.
	CliOnly

	// ConfigOnly fields are never read from the command line.
	ConfigOnly
)

// String returns the source policy's canonical name.
func (s Source) String() string {
	switch s {
	case CliOnly:
		return "cli_only"
	case ConfigOnly:
		return "config_only"
	default:
		return "cli_and_config"
	}
}

// AcceptsCLI reports whether the command line is an eligible source.
func (s Source) AcceptsCLI() bool {
	return s == CliOnly || s == CliAndConfig
}

// AcceptsConfig reports whether config data (file or raw string) is an
// eligible source.
func (s Source) AcceptsConfig() bool {
	return s == ConfigOnly || s == CliAndConfig
}

// MultiValue controls how a list field combines values when more than one
// source supplies one. It is ignored for non-list fields.
type MultiValue int

const (
	// Extend concatenates the lists from every source that supplied one,
	// in fixed order file, raw, cli. Duplicates are preserved.
	Extend MultiValue = iota

	// Overwrite applies the same precedence rule as scalar fields: the
	// highest-precedence source with any list present replaces the rest,
	// even when its list is empty.
	Overwrite
)

// String returns the merge policy's canonical name.
func (m MultiValue) String() string {
	if m == Overwrite {
		return "overwrite"
	}
	return "extend"
}

// Field describes a single configurable setting: its stable name (shared by
// the CLI flag and the config file key), its declared kind as a cty type,
// which sources may supply it, and how values merge.
type Field struct {
	// Name is the unique identifier, used verbatim as the long CLI flag
	// and the config file lookup key. Lowercase kebab-case.
	Name string

	// Type is the declared kind of the final value, e.g. cty.String,
	// cty.Number, cty.Bool, or cty.List(cty.String).
	Type cty.Type

	// Source is the per-field eligibility policy.
	Source Source

	// Default is the pre-typed fallback applied when no eligible source
	// supplies a value. Nil means no default.
	Default *cty.Value

	// MultiValue selects the list merge policy. Ignored unless Type is a
	// list type.
	MultiValue MultiValue

	// Required makes resolution fail when no source supplies a value and
	// no default exists.
	Required bool

	// Short is an optional one-letter CLI flag alias.
	Short string

	// Help is the usage text shown for the field's CLI flag.
	Help string
}

// IsList reports whether the field's declared kind is a list.
func (f *Field) IsList() bool {
	return f.Type.IsListType()
}
