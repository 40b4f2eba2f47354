package resolver

import (
	"context"

	"github.com/vk/flagfile/internal/ctxlog"
	"github.com/vk/flagfile/internal/decode"
	"github.com/vk/flagfile/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Presence maps field names to the raw values the user explicitly supplied
// on the command line, before type conversion. A field absent from the map
// was not set; defaults baked into the CLI layer never appear here, which
// keeps override precedence independent of any flag library's internals.
type Presence map[string][]string

// FileInput carries the value tree parsed from a discovered or explicitly
// named config file, plus its identity for provenance reporting.
type FileInput struct {
	Tree   cty.Value
	Path   string
	Format decode.Format
}

// RawInput carries the value tree parsed from the inline raw configuration
// string and the format its auto-detection committed to.
type RawInput struct {
	Tree   cty.Value
	Format decode.Format
}

// Origin identifies which source produced a field's final value.
type Origin string

const (
	OriginCLI     Origin = "cli"
	OriginRaw     Origin = "raw"
	OriginFile    Origin = "file"
	OriginDefault Origin = "default"
	OriginUnset   Origin = "unset"
	// OriginMerged marks an Extend list built from more than one source;
	// Provenance.Contributors lists them in concatenation order.
	OriginMerged Origin = "merged"
)

// Provenance records where a resolved value came from, for diagnostics.
type Provenance struct {
	Origin       Origin
	Contributors []Origin
	Path         string
	Format       decode.Format
}

// Resolve merges the three inputs into one final typed value per field, in
// registry order. The registry and both trees are borrowed read-only; the
// returned Resolved is freshly built. The first missing-required or
// conversion failure aborts the call with no partial result.
func Resolve(ctx context.Context, reg *registry.Registry, presence Presence, file *FileInput, raw *RawInput) (*Resolved, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolution started.",
		"fields", len(reg.Fields()),
		"cli_supplied", len(presence),
		"have_file", file != nil,
		"have_raw", raw != nil,
	)

	res := newResolved()
	for _, field := range reg.Fields() {
		value, prov, err := mergeField(field, presence, file, raw)
		if err != nil {
			return nil, err
		}
		if field.Required && value.IsNull() {
			// An explicit null from a config source is a present
			// candidate, but it cannot satisfy a required field.
			return nil, &MissingRequiredFieldError{Field: field.Name}
		}
		res.set(field.Name, value, prov)
		logger.Debug("Field resolved.", "field", field.Name, "origin", prov.Origin)
	}

	logger.Debug("Resolution finished.", "fields", len(res.order))
	return res, nil
}
