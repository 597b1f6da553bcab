package registry

import "context"

// Source loads live notifiable instances back from identifier values. It is
// the reverse direction of ResolveKey: given a kind and the field values in
// descriptor order, return the domain object, or ErrNotRegistered /
// a not-found error from the underlying provider.
type Source interface {
	Find(ctx context.Context, kind string, values []string) (any, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, kind string, values []string) (any, error)

// Find satisfies the Source interface.
func (f SourceFunc) Find(ctx context.Context, kind string, values []string) (any, error) {
	if f == nil {
		return nil, ErrNotRegistered
	}
	return f(ctx, kind, values)
}
