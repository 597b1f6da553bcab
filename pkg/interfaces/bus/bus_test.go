package bus

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(ctx context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestFanoutDeliversToAllTargets(t *testing.T) {
	first := &recorder{}
	second := &recorder{}
	fanout := NewFanout(first, nil, second)

	event := Event{Topic: "notification.created"}
	if err := fanout.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("expected delivery to both targets, got %d and %d", len(first.events), len(second.events))
	}
}

func TestFanoutReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := &recorder{err: boom}
	trailing := &recorder{}
	fanout := NewFanout(failing, trailing)

	err := fanout.Publish(context.Background(), Event{Topic: "notification.seen"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected first error, got %v", err)
	}
	if len(trailing.events) != 1 {
		t.Fatal("expected delivery to continue past failing target")
	}
}

func TestFuncAdapter(t *testing.T) {
	var got Event
	f := Func(func(ctx context.Context, event Event) error {
		got = event
		return nil
	})
	if err := f.Publish(context.Background(), Event{Topic: "notification.modified"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got.Topic != "notification.modified" {
		t.Fatalf("unexpected topic %s", got.Topic)
	}

	var nilFunc Func
	if err := nilFunc.Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("nil func should be a no-op, got %v", err)
	}
}
