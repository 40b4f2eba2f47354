package decode

import "strings"

// Format identifies a supported configuration syntax.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
	HCL  Format = "hcl"
)

// DetectOrder is the sequence of formats ParseAuto attempts for inline raw
// configuration. JSON goes first because almost every JSON document is also
// a YAML document, so trying YAML first would shadow JSON forever. The
// ordering is a convention of this engine, not a contract; tests may
// override it. HCL is intentionally absent: it is only ever selected by an
// explicit file extension or format override.
var DetectOrder = []Format{JSON, YAML, TOML}

// FromExtension maps a file extension (with or without the leading dot)
// to its Format. Common aliases like "yml" and "jsonc" are accepted.
func FromExtension(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		return YAML, true
	case "json", "jsonc":
		return JSON, true
	case "toml":
		return TOML, true
	case "hcl":
		return HCL, true
	}
	return "", false
}
