package resolver

import (
	"github.com/vk/flagfile/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// mergeField applies the per-field eligibility and merge rules from the
// field's descriptor. Scalars and Overwrite lists take the first candidate
// in precedence order cli > raw > file; Extend lists concatenate every
// present candidate in order file, raw, cli.
func mergeField(field *schema.Field, presence Presence, file *FileInput, raw *RawInput) (cty.Value, Provenance, error) {
	cliVals, hasCLI := cliCandidate(field, presence)
	rawVal, hasRaw := treeCandidate(field, raw == nil, func() cty.Value { return raw.Tree })
	fileVal, hasFile := treeCandidate(field, file == nil, func() cty.Value { return file.Tree })

	if field.IsList() && field.MultiValue == schema.Extend && (hasCLI || hasRaw || hasFile) {
		return extendLists(field, cliVals, hasCLI, rawVal, hasRaw, fileVal, hasFile, file)
	}

	switch {
	case hasCLI:
		value, err := convertCLI(field, cliVals)
		if err != nil {
			return cty.NilVal, Provenance{}, err
		}
		return value, Provenance{Origin: OriginCLI}, nil

	case hasRaw:
		value, err := convertTree(field, rawVal)
		if err != nil {
			return cty.NilVal, Provenance{}, err
		}
		return value, Provenance{Origin: OriginRaw, Format: raw.Format}, nil

	case hasFile:
		value, err := convertTree(field, fileVal)
		if err != nil {
			return cty.NilVal, Provenance{}, err
		}
		return value, Provenance{Origin: OriginFile, Path: file.Path, Format: file.Format}, nil

	default:
		if field.Default != nil {
			// Already normalized to the field's type by the registry.
			return *field.Default, Provenance{Origin: OriginDefault}, nil
		}
		if field.Required {
			return cty.NilVal, Provenance{}, &MissingRequiredFieldError{Field: field.Name}
		}
		return cty.NullVal(field.Type), Provenance{Origin: OriginUnset}, nil
	}
}

// cliCandidate returns the raw flag values for the field if the command
// line is an eligible source and the user explicitly supplied the flag.
func cliCandidate(field *schema.Field, presence Presence) ([]string, bool) {
	if !field.Source.AcceptsCLI() {
		return nil, false
	}
	vals, ok := presence[field.Name]
	return vals, ok
}

// treeCandidate returns the field's value from a config tree if config
// data is an eligible source and the tree's top-level mapping has a key
// exactly matching the field name.
func treeCandidate(field *schema.Field, absent bool, tree func() cty.Value) (cty.Value, bool) {
	if absent || !field.Source.AcceptsConfig() {
		return cty.NilVal, false
	}
	t := tree()
	if !t.Type().IsObjectType() || !t.Type().HasAttribute(field.Name) {
		return cty.NilVal, false
	}
	return t.GetAttr(field.Name), true
}

// extendLists builds the concatenation file ++ raw ++ cli, preserving
// relative order and duplicates. An explicit null list contributes zero
// elements but still counts as present.
func extendLists(field *schema.Field, cliVals []string, hasCLI bool, rawVal cty.Value, hasRaw bool, fileVal cty.Value, hasFile bool, file *FileInput) (cty.Value, Provenance, error) {
	elemType := field.Type.ElementType()
	var elems []cty.Value
	var contributors []Origin
	prov := Provenance{}

	if hasFile {
		part, err := listElements(field, fileVal)
		if err != nil {
			return cty.NilVal, Provenance{}, err
		}
		elems = append(elems, part...)
		contributors = append(contributors, OriginFile)
		prov.Path = file.Path
		prov.Format = file.Format
	}
	if hasRaw {
		part, err := listElements(field, rawVal)
		if err != nil {
			return cty.NilVal, Provenance{}, err
		}
		elems = append(elems, part...)
		contributors = append(contributors, OriginRaw)
	}
	if hasCLI {
		for _, rawStr := range cliVals {
			ev, err := convert.Convert(cty.StringVal(rawStr), elemType)
			if err != nil {
				return cty.NilVal, Provenance{}, &TypeConversionError{Field: field.Name, Want: elemType, Raw: rawStr, Err: err}
			}
			elems = append(elems, ev)
		}
		contributors = append(contributors, OriginCLI)
	}

	if len(contributors) == 1 {
		prov.Origin = contributors[0]
	} else {
		prov.Origin = OriginMerged
		prov.Contributors = contributors
	}

	if len(elems) == 0 {
		return cty.ListValEmpty(elemType), prov, nil
	}
	return cty.ListVal(elems), prov, nil
}

// listElements converts a config-tree candidate to the field's list type
// and returns its elements.
func listElements(field *schema.Field, val cty.Value) ([]cty.Value, error) {
	converted, err := convert.Convert(val, field.Type)
	if err != nil {
		return nil, &TypeConversionError{Field: field.Name, Want: field.Type, Raw: describeValue(val), Err: err}
	}
	if converted.IsNull() {
		return nil, nil
	}
	var elems []cty.Value
	it := converted.ElementIterator()
	for it.Next() {
		_, ev := it.Element()
		elems = append(elems, ev)
	}
	return elems, nil
}

// convertCLI converts the explicitly supplied flag values to the field's
// declared kind. Repeated scalar flags keep the last occurrence; list
// fields take one element per occurrence.
func convertCLI(field *schema.Field, vals []string) (cty.Value, error) {
	if field.IsList() {
		elemType := field.Type.ElementType()
		if len(vals) == 0 {
			return cty.ListValEmpty(elemType), nil
		}
		elems := make([]cty.Value, 0, len(vals))
		for _, rawStr := range vals {
			ev, err := convert.Convert(cty.StringVal(rawStr), elemType)
			if err != nil {
				return cty.NilVal, &TypeConversionError{Field: field.Name, Want: elemType, Raw: rawStr, Err: err}
			}
			elems = append(elems, ev)
		}
		return cty.ListVal(elems), nil
	}

	if len(vals) == 0 {
		return cty.NullVal(field.Type), nil
	}
	rawStr := vals[len(vals)-1]
	value, err := convert.Convert(cty.StringVal(rawStr), field.Type)
	if err != nil {
		return cty.NilVal, &TypeConversionError{Field: field.Name, Want: field.Type, Raw: rawStr, Err: err}
	}
	return value, nil
}

// convertTree converts a config-tree candidate to the field's declared
// kind.
func convertTree(field *schema.Field, val cty.Value) (cty.Value, error) {
	converted, err := convert.Convert(val, field.Type)
	if err != nil {
		return cty.NilVal, &TypeConversionError{Field: field.Name, Want: field.Type, Raw: describeValue(val), Err: err}
	}
	return converted, nil
}

// describeValue renders a candidate value for error messages.
func describeValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	if v.Type() == cty.String {
		return "\"" + v.AsString() + "\""
	}
	return v.GoString()
}
