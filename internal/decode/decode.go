package decode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"github.com/vk/flagfile/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// ParseError describes a failure to turn config content into a value tree.
// Offset is a byte offset into the input (-1 when the underlying parser
// does not report one); Line is 1-based (0 when unknown). Path is filled in
// by the caller for file-backed content and stays empty for raw strings.
type ParseError struct {
	Format Format
	Path   string
	Offset int64
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Format == "" {
		b.WriteString("raw config")
	} else {
		fmt.Fprintf(&b, "%s config", e.Format)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (byte offset %d)", e.Offset)
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts raw bytes in the given format into a value tree. The top
// level of the document must be a mapping; anything else is a ParseError.
func Parse(ctx context.Context, format Format, data []byte) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing config document.", "format", format, "size_bytes", len(data))

	if format == HCL {
		return parseHCL(data)
	}

	var (
		native any
		err    error
	)
	switch format {
	case YAML:
		native, err = parseYAML(data)
	case JSON:
		native, err = parseJSON(data)
	case TOML:
		native, err = parseTOML(data)
	default:
		return cty.NilVal, &ParseError{Format: format, Offset: -1, Err: fmt.Errorf("unsupported config format %q", format)}
	}
	if err != nil {
		return cty.NilVal, err
	}

	tree, terr := nativeToCty(native)
	if terr != nil {
		return cty.NilVal, &ParseError{Format: format, Offset: -1, Err: terr}
	}
	if tree.IsNull() || !tree.Type().IsObjectType() {
		return cty.NilVal, &ParseError{Format: format, Offset: -1, Err: errors.New("top-level document must be a mapping")}
	}
	return tree, nil
}

// ParseAuto parses an inline raw configuration string by attempting each
// format in DetectOrder and committing to the first that yields a top-level
// mapping. Given the same input, the same format is always selected. The
// returned Format reports which parser won.
func ParseAuto(ctx context.Context, raw string) (cty.Value, Format, error) {
	logger := ctxlog.FromContext(ctx)
	data := []byte(raw)

	var firstErr error
	for _, format := range DetectOrder {
		if format == HCL {
			continue
		}
		tree, err := Parse(ctx, format, data)
		if err == nil {
			logger.Debug("Raw config format detected.", "format", format)
			return tree, format, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		logger.Debug("Raw config rejected by format, trying next.", "format", format, "error", err)
	}
	return cty.NilVal, "", &ParseError{
		Offset: -1,
		Err:    fmt.Errorf("content does not parse as any of %v: %w", DetectOrder, firstErr),
	}
}

func parseYAML(data []byte) (any, error) {
	var native any
	if err := yaml.Unmarshal(data, &native); err != nil {
		// yaml.v3 embeds "line N" in the message but exposes no
		// structured position on the generic error.
		return nil, &ParseError{Format: YAML, Offset: -1, Err: err}
	}
	return native, nil
}

func parseJSON(data []byte) (any, error) {
	// jsonc.ToJSON blanks comments and trailing commas in place, so byte
	// offsets reported against the stripped buffer still line up with the
	// original input.
	stripped := jsonc.ToJSON(data)

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()

	var native any
	if err := dec.Decode(&native); err != nil {
		return nil, &ParseError{Format: JSON, Offset: jsonErrOffset(err), Err: err}
	}
	if dec.More() {
		return nil, &ParseError{
			Format: JSON,
			Offset: dec.InputOffset(),
			Err:    errors.New("unexpected trailing data after top-level value"),
		}
	}
	return native, nil
}

func jsonErrOffset(err error) int64 {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return syn.Offset
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return typ.Offset
	}
	return -1
}

func parseTOML(data []byte) (any, error) {
	// TOML documents are tables by construction, so decoding straight
	// into a map doubles as the top-level mapping check.
	var table map[string]any
	if err := toml.Unmarshal(data, &table); err != nil {
		line := 0
		var de *toml.DecodeError
		if errors.As(err, &de) {
			line, _ = de.Position()
		}
		return nil, &ParseError{Format: TOML, Offset: -1, Line: line, Err: err}
	}
	if table == nil {
		table = map[string]any{}
	}
	return table, nil
}
