package registry

import (
	"github.com/vk/flagfile/internal/schema"
)

// ReservedFlags are the engine-owned CLI flag names. No field may use one
// of these as its name or short alias.
var ReservedFlags = []string{"config-file", "no-config", "config"}

// Registry is the ordered collection of field descriptors for one tool.
// Resolution iterates fields in declaration order.
type Registry struct {
	fields []*schema.Field
	byName map[string]*schema.Field
}

// New builds a Registry from the given descriptors, preserving their order.
// It returns a *CallerConfigError describing every problem found if the
// descriptor list is invalid.
func New(fields ...*schema.Field) (*Registry, error) {
	r := &Registry{
		fields: fields,
		byName: make(map[string]*schema.Field, len(fields)),
	}
	for _, f := range fields {
		if _, dup := r.byName[f.Name]; !dup {
			r.byName[f.Name] = f
		}
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Fields returns the descriptors in declaration order. The returned slice
// must not be mutated.
func (r *Registry) Fields() []*schema.Field {
	return r.fields
}

// Lookup returns the descriptor with the given name, if any.
func (r *Registry) Lookup(name string) (*schema.Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}
