// This file contains the logic for converting the native Go values produced
// by the YAML/JSON/TOML parsers into their cty equivalents, so that every
// format feeds the resolver through one identical tree representation.

package decode

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/zclconf/go-cty/cty"
)

// nativeToCty recursively converts a parsed native Go value into a cty
// value. Mappings become objects, sequences become tuples (so mixed element
// types survive until conversion), and numbers keep full precision via
// big.Float.
func nativeToCty(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil

	case bool:
		return cty.BoolVal(val), nil

	case string:
		return cty.StringVal(val), nil

	case json.Number:
		return parseNumber(string(val))

	case int:
		return cty.NumberIntVal(int64(val)), nil

	case int64:
		return cty.NumberIntVal(val), nil

	case uint64:
		return cty.NumberUIntVal(val), nil

	case float64:
		return cty.NumberFloatVal(val), nil

	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(val))
		for i, item := range val {
			ev, err := nativeToCty(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("at index %d: %w", i, err)
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil

	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(val))
		for key, item := range val {
			av, err := nativeToCty(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in key %q: %w", key, err)
			}
			attrs[key] = av
		}
		return cty.ObjectVal(attrs), nil

	case map[any]any:
		attrs := make(map[string]cty.Value, len(val))
		for key, item := range val {
			keyStr, ok := key.(string)
			if !ok {
				return cty.NilVal, fmt.Errorf("mapping key %v is not a string", key)
			}
			av, err := nativeToCty(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in key %q: %w", keyStr, err)
			}
			attrs[keyStr] = av
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal, nil
		}
		return cty.ObjectVal(attrs), nil

	// TOML date/time values carry no cty equivalent; they become strings.
	case time.Time:
		return cty.StringVal(val.Format(time.RFC3339)), nil
	case toml.LocalDate:
		return cty.StringVal(val.String()), nil
	case toml.LocalTime:
		return cty.StringVal(val.String()), nil
	case toml.LocalDateTime:
		return cty.StringVal(val.String()), nil

	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}

// parseNumber converts a decimal literal into a cty number without the
// round trip through float64 that would lose large integers.
func parseNumber(s string) (cty.Value, error) {
	f, _, err := big.ParseFloat(s, 10, 512, big.ToNearestEven)
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid number literal %q: %w", s, err)
	}
	return cty.NumberVal(f), nil
}
