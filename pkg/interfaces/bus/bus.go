package bus

import "context"

// Event carries a lifecycle payload published to a named topic.
type Event struct {
	Topic   string
	Payload any
}

// Bus publishes lifecycle events to registered listeners. Delivery is
// synchronous and in publish order; a failing listener propagates its error
// to the mutating caller.
type Bus interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards events.
type Nop struct{}

var _ Bus = (*Nop)(nil)

func (n *Nop) Publish(ctx context.Context, event Event) error { return nil }

// Func adapts a function to the Bus interface.
type Func func(ctx context.Context, event Event) error

// Publish satisfies the Bus interface.
func (f Func) Publish(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// Fanout forwards events to multiple downstream buses.
type Fanout struct {
	targets []Bus
}

// NewFanout assembles a bus that multicasts to the provided targets.
func NewFanout(targets ...Bus) *Fanout {
	filtered := make([]Bus, 0, len(targets))
	for _, target := range targets {
		if target != nil {
			filtered = append(filtered, target)
		}
	}
	return &Fanout{targets: filtered}
}

var _ Bus = (*Fanout)(nil)

// Publish delivers the event to each target, returning the first error observed.
func (f *Fanout) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, target := range f.targets {
		if err := target.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
