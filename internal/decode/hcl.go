package decode

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// parseHCL decodes an attribute-only HCL document into an object tree.
// Blocks are rejected by JustAttributes; the config surface is flat
// key/value attributes whose expressions must be self-contained literals
// or collections (no variable references, no functions).
func parseHCL(data []byte) (cty.Value, error) {
	file, diags := hclsyntax.ParseConfig(data, "config.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, hclParseError(diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, hclParseError(diags)
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}

	vals := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return cty.NilVal, hclParseError(diags)
		}
		vals[name] = v
	}
	return cty.ObjectVal(vals), nil
}

func hclParseError(diags hcl.Diagnostics) error {
	line := 0
	if len(diags) > 0 && diags[0].Subject != nil {
		line = diags[0].Subject.Start.Line
	}
	return &ParseError{Format: HCL, Offset: -1, Line: line, Err: diags}
}
