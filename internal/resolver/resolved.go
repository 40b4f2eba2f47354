package resolver

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Resolved is the final, fully typed configuration produced by Resolve.
// It holds one value per registered field, in registry order, together
// with each value's provenance.
type Resolved struct {
	values map[string]cty.Value
	prov   map[string]Provenance
	order  []string
}

func newResolved() *Resolved {
	return &Resolved{
		values: make(map[string]cty.Value),
		prov:   make(map[string]Provenance),
	}
}

func (r *Resolved) set(name string, value cty.Value, prov Provenance) {
	if _, exists := r.values[name]; !exists {
		r.order = append(r.order, name)
	}
	r.values[name] = value
	r.prov[name] = prov
}

// Names returns the field names in registry order.
func (r *Resolved) Names() []string {
	return r.order
}

// Value returns the resolved value for the named field.
func (r *Resolved) Value(name string) (cty.Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Provenance returns where the named field's value came from.
func (r *Resolved) Provenance(name string) (Provenance, bool) {
	p, ok := r.prov[name]
	return p, ok
}

// String returns the named field as a Go string. A null value yields the
// zero value.
func (r *Resolved) String(name string) (string, error) {
	var out string
	err := r.decodeInto(name, cty.String, &out)
	return out, err
}

// Int returns the named field as a Go int. A null value yields zero.
func (r *Resolved) Int(name string) (int, error) {
	var out int
	err := r.decodeInto(name, cty.Number, &out)
	return out, err
}

// Bool returns the named field as a Go bool. A null value yields false.
func (r *Resolved) Bool(name string) (bool, error) {
	var out bool
	err := r.decodeInto(name, cty.Bool, &out)
	return out, err
}

// StringList returns the named field as a Go string slice. A null value
// yields nil.
func (r *Resolved) StringList(name string) ([]string, error) {
	v, ok := r.values[name]
	if !ok {
		return nil, fmt.Errorf("no field named %q was resolved", name)
	}
	if v.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("field %q is not a string list: %w", name, err)
	}
	out := make([]string, 0, converted.LengthInt())
	it := converted.ElementIterator()
	for it.Next() {
		_, ev := it.Element()
		if ev.IsNull() {
			out = append(out, "")
			continue
		}
		out = append(out, ev.AsString())
	}
	return out, nil
}

func (r *Resolved) decodeInto(name string, want cty.Type, target any) error {
	v, ok := r.values[name]
	if !ok {
		return fmt.Errorf("no field named %q was resolved", name)
	}
	if v.IsNull() {
		return nil
	}
	converted, err := convert.Convert(v, want)
	if err != nil {
		return fmt.Errorf("field %q is not a %s: %w", name, want.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, target)
}

// Decode populates a caller struct from the resolved values. Struct fields
// opt in with a `flagfile:"field-name"` tag; untagged fields are skipped,
// and null values leave the Go zero value in place.
func (r *Resolved) Decode(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct")
	}
	structVal := ptr.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, got %s", structVal.Kind())
	}
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("flagfile"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		value, ok := r.values[name]
		if !ok {
			return fmt.Errorf("struct field %s references unknown config field %q", field.Name, name)
		}
		if value.IsNull() {
			continue
		}

		fieldPtr := structVal.Field(i).Addr().Interface()
		impliedType, err := gocty.ImpliedType(structVal.Field(i).Interface())
		if err != nil {
			if err := gocty.FromCtyValue(value, fieldPtr); err != nil {
				return fmt.Errorf("failed to decode field %q: %w", name, err)
			}
			continue
		}
		converted, err := convert.Convert(value, impliedType)
		if err != nil {
			return fmt.Errorf("cannot convert field %q to %s: %w", name, impliedType.FriendlyName(), err)
		}
		if err := gocty.FromCtyValue(converted, fieldPtr); err != nil {
			return fmt.Errorf("failed to decode field %q: %w", name, err)
		}
	}
	return nil
}
