package resolver

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// MissingRequiredFieldError reports a required field that no eligible
// source supplied and that has no default.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q: no eligible source supplied a value and no default is declared", e.Field)
}

// TypeConversionError reports a merged value that cannot convert to its
// field's declared kind.
type TypeConversionError struct {
	Field string
	Want  cty.Type
	Raw   string
	Err   error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot convert %s to %s: %v", e.Field, e.Raw, e.Want.FriendlyName(), e.Err)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}
