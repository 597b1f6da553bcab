package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// DefaultSeparator joins identifier field values into a directory key.
const DefaultSeparator = "-"

var (
	// ErrConfiguration indicates the descriptor set is missing or malformed.
	// It surfaces at construction time and is fatal.
	ErrConfiguration = errors.New("registry: invalid configuration")

	// ErrNotRegistered indicates a kind name or concrete type with no
	// descriptor. Recoverable; callers decide whether to register or report.
	ErrNotRegistered = errors.New("registry: notifiable not registered")
)

// Field binds one identifier field name to the accessor that extracts its
// value from a live notifiable. Accessors are plain functions supplied at
// registration, so resolution never reaches for reflection or method names.
type Field struct {
	Name  string
	Value func(notifiable any) (string, error)
}

// Descriptor declares one notifiable kind: its registry name, a prototype
// value fixing the concrete Go type, and the ordered identifier fields.
//
// Field order is load-bearing: it defines the generated directory key, and
// reordering fields orphans previously stored entries.
type Descriptor struct {
	Name      string
	Prototype any
	Fields    []Field
}

// Registry maps notifiable kinds to descriptors and runtime instances back to
// their registered names. It is assembled once at startup and read-only
// afterwards.
type Registry struct {
	descriptors map[string]Descriptor
	byType      map[reflect.Type]string
	separator   string
}

// Option amends registry construction.
type Option func(*Registry)

// WithSeparator overrides the key separator. Identifier values are joined
// unescaped, so pick a separator that cannot occur inside them.
func WithSeparator(sep string) Option {
	return func(r *Registry) {
		r.separator = sep
	}
}

// New validates the descriptor set and builds the registry.
func New(descriptors []Descriptor, opts ...Option) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: at least one descriptor is required", ErrConfiguration)
	}

	r := &Registry{
		descriptors: make(map[string]Descriptor, len(descriptors)),
		byType:      make(map[reflect.Type]string, len(descriptors)),
		separator:   DefaultSeparator,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.separator == "" {
		return nil, fmt.Errorf("%w: separator cannot be empty", ErrConfiguration)
	}

	for _, descriptor := range descriptors {
		name := strings.TrimSpace(descriptor.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: descriptor name is required", ErrConfiguration)
		}
		if _, exists := r.descriptors[name]; exists {
			return nil, fmt.Errorf("%w: duplicate descriptor %q", ErrConfiguration, name)
		}
		if descriptor.Prototype == nil {
			return nil, fmt.Errorf("%w: descriptor %q has no prototype", ErrConfiguration, name)
		}
		if len(descriptor.Fields) == 0 {
			return nil, fmt.Errorf("%w: descriptor %q has no identifier fields", ErrConfiguration, name)
		}
		for _, field := range descriptor.Fields {
			if strings.TrimSpace(field.Name) == "" || field.Value == nil {
				return nil, fmt.Errorf("%w: descriptor %q has an incomplete field", ErrConfiguration, name)
			}
		}

		typ := reflect.TypeOf(descriptor.Prototype)
		if existing, taken := r.byType[typ]; taken {
			return nil, fmt.Errorf("%w: type %s already registered as %q", ErrConfiguration, typ, existing)
		}

		descriptor.Name = name
		r.descriptors[name] = descriptor
		r.byType[typ] = name
	}
	return r, nil
}

// Separator returns the configured key separator.
func (r *Registry) Separator() string {
	return r.separator
}

// Descriptors returns the full registry keyed by kind name.
func (r *Registry) Descriptors() map[string]Descriptor {
	out := make(map[string]Descriptor, len(r.descriptors))
	for name, descriptor := range r.descriptors {
		out[name] = descriptor
	}
	return out
}

// Describe returns the descriptor for the given kind name.
func (r *Registry) Describe(name string) (Descriptor, error) {
	descriptor, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return descriptor, nil
}

// NameOf reverse-maps a runtime instance to its registered kind name.
// Absence is reported through the boolean, not as an error; strict callers
// convert it themselves.
func (r *Registry) NameOf(notifiable any) (string, bool) {
	if notifiable == nil {
		return "", false
	}
	name, ok := r.byType[reflect.TypeOf(notifiable)]
	return name, ok
}

// ResolveKey builds the stable directory identifier for a notifiable by
// joining its identifier field values, in registration order, with the
// configured separator. Values are joined unescaped; a value containing the
// separator can collide with a different tuple.
func (r *Registry) ResolveKey(notifiable any) (string, error) {
	name, ok := r.NameOf(notifiable)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrNotRegistered, notifiable)
	}
	descriptor := r.descriptors[name]

	values := make([]string, 0, len(descriptor.Fields))
	for _, field := range descriptor.Fields {
		value, err := field.Value(notifiable)
		if err != nil {
			return "", fmt.Errorf("registry: resolve %s.%s: %w", name, field.Name, err)
		}
		values = append(values, value)
	}
	return strings.Join(values, r.separator), nil
}

// SplitKey breaks a stored identifier back into its field values.
func (r *Registry) SplitKey(identifier string) []string {
	return strings.Split(identifier, r.separator)
}
