package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/flagfile/internal/schema"
	"github.com/zclconf/go-cty/cty/convert"
)

// CallerConfigError reports mistakes in the descriptor list itself: reserved
// flag collisions, duplicate names, contradictory policies. These are
// programmer errors in the calling tool, not user input errors.
type CallerConfigError struct {
	Problems []string
}

func (e *CallerConfigError) Error() string {
	return fmt.Sprintf("invalid field registry:\n- %s", strings.Join(e.Problems, "\n- "))
}

// nameRe pins the case rules fixed at descriptor creation: lowercase
// kebab-case, at least two characters so names never collide with short
// aliases.
var nameRe = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// validate performs the eager descriptor checks. All problems are collected
// so the caller sees every mistake at once.
func (r *Registry) validate() error {
	var errs []string

	reserved := make(map[string]struct{}, len(ReservedFlags))
	for _, name := range ReservedFlags {
		reserved[name] = struct{}{}
	}

	seenNames := make(map[string]struct{}, len(r.fields))
	seenShorts := make(map[string]string)

	for _, f := range r.fields {
		if f.Name == "" {
			errs = append(errs, "field with empty name")
			continue
		}
		if !nameRe.MatchString(f.Name) || len(f.Name) < 2 {
			errs = append(errs, fmt.Sprintf("field %q: name must be lowercase kebab-case with at least two characters", f.Name))
		}
		if _, ok := reserved[f.Name]; ok {
			errs = append(errs, fmt.Sprintf("field %q: name collides with a reserved engine flag", f.Name))
		}
		if _, ok := seenNames[f.Name]; ok {
			errs = append(errs, fmt.Sprintf("field %q: duplicate name", f.Name))
		}
		seenNames[f.Name] = struct{}{}

		if f.Short != "" {
			if len(f.Short) != 1 {
				errs = append(errs, fmt.Sprintf("field %q: short alias %q must be a single letter", f.Name, f.Short))
			}
			if !f.Source.AcceptsCLI() {
				errs = append(errs, fmt.Sprintf("field %q: a config-only field cannot declare a short CLI alias", f.Name))
			}
			if prev, ok := seenShorts[f.Short]; ok {
				errs = append(errs, fmt.Sprintf("field %q: short alias %q already used by field %q", f.Name, f.Short, prev))
			} else {
				seenShorts[f.Short] = f.Name
			}
		}

		if f.IsList() && f.Source == schema.CliOnly && f.MultiValue == schema.Extend {
			errs = append(errs, fmt.Sprintf("field %q: cli_only list cannot use the extend policy; extend merges config sources that can never exist", f.Name))
		}

		if f.Default != nil {
			converted, err := convert.Convert(*f.Default, f.Type)
			if err != nil {
				errs = append(errs, fmt.Sprintf("field %q: default value is not convertible to %s: %v", f.Name, f.Type.FriendlyName(), err))
			} else {
				// Normalize so the resolver can hand the default out as-is.
				f.Default = &converted
			}
		}
	}

	if len(errs) > 0 {
		return &CallerConfigError{Problems: errs}
	}
	return nil
}
