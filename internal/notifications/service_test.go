package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-notifiable/internal/storage/memory"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/bus"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

type recordingBus struct {
	events []bus.Event
}

func (b *recordingBus) Publish(ctx context.Context, event bus.Event) error {
	b.events = append(b.events, event)
	return nil
}

func newTestService(t *testing.T, b bus.Bus) (*Service, *memory.AssignmentRepository) {
	t.Helper()
	assignments := memory.NewAssignmentRepository()
	svc, err := NewService(Dependencies{
		Notifications: memory.NewNotificationRepository(),
		Assignments:   assignments,
		Bus:           b,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc, assignments
}

func TestCreateRequiresSubject(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.Create(context.Background(), CreateInput{Subject: "   "}); err == nil {
		t.Fatal("expected subject validation error")
	}
}

func TestCreateDefaultsDateAndPublishes(t *testing.T) {
	b := &recordingBus{}
	svc, _ := newTestService(t, b)
	ctx := context.Background()

	record, err := svc.Create(ctx, CreateInput{
		Subject:  "Deploy finished",
		Message:  "Build 42 is live",
		Metadata: domain.JSONMap{"build": 42},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if record.Date.IsZero() {
		t.Fatal("expected date to default to now")
	}
	if len(b.events) != 1 || b.events[0].Topic != domain.TopicCreated {
		t.Fatalf("expected one created event, got %v", b.events)
	}
	envelope, ok := b.events[0].Payload.(domain.Envelope)
	if !ok || envelope.Notification.ID != record.ID {
		t.Fatalf("unexpected payload %#v", b.events[0].Payload)
	}

	got, err := svc.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Subject != "Deploy finished" {
		t.Fatalf("unexpected subject %q", got.Subject)
	}
}

func TestMutatorsWriteTheirField(t *testing.T) {
	b := &recordingBus{}
	svc, _ := newTestService(t, b)
	ctx := context.Background()

	record, err := svc.Create(ctx, CreateInput{Subject: "Original"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	when := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if _, err := svc.SetSubject(ctx, record.ID, "Updated"); err != nil {
		t.Fatalf("set subject: %v", err)
	}
	if _, err := svc.SetMessage(ctx, record.ID, "New body"); err != nil {
		t.Fatalf("set message: %v", err)
	}
	if _, err := svc.SetLink(ctx, record.ID, "https://example.com"); err != nil {
		t.Fatalf("set link: %v", err)
	}
	if _, err := svc.SetDate(ctx, record.ID, when); err != nil {
		t.Fatalf("set date: %v", err)
	}

	got, err := svc.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Subject != "Updated" || got.Message != "New body" || got.Link != "https://example.com" {
		t.Fatalf("unexpected record %+v", got)
	}
	if !got.Date.Equal(when) {
		t.Fatalf("expected date %v, got %v", when, got.Date)
	}

	modified := 0
	for _, event := range b.events {
		if event.Topic == domain.TopicModified {
			modified++
		}
	}
	if modified != 4 {
		t.Fatalf("expected 4 modified events, got %d", modified)
	}
}

func TestSetSubjectRejectsEmpty(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	record, err := svc.Create(ctx, CreateInput{Subject: "Keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetSubject(ctx, record.ID, ""); err == nil {
		t.Fatal("expected empty subject rejection")
	}
}

func TestDeleteCascadesAssignments(t *testing.T) {
	b := &recordingBus{}
	svc, assignments := newTestService(t, b)
	ctx := context.Background()

	record, err := svc.Create(ctx, CreateInput{Subject: "Cleanup me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	entryID := uuid.New()
	link := &domain.NotificationAssignment{EntryID: entryID, NotificationID: record.ID}
	if err := assignments.Create(ctx, link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	if err := svc.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, record.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := assignments.GetByPair(ctx, entryID, record.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected cascade to remove link, got %v", err)
	}
	last := b.events[len(b.events)-1]
	if last.Topic != domain.TopicDeleted {
		t.Fatalf("expected deleted event last, got %s", last.Topic)
	}
}

func TestDeleteMissingNotification(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPublishErrorPropagatesAfterWrite(t *testing.T) {
	failing := bus.Func(func(ctx context.Context, event bus.Event) error {
		return errors.New("listener down")
	})
	svc, _ := newTestService(t, failing)
	ctx := context.Background()

	record, err := svc.Create(ctx, CreateInput{Subject: "Still persisted"})
	if err == nil {
		t.Fatal("expected listener error to propagate")
	}
	if record == nil {
		t.Fatal("expected record despite listener failure")
	}
	got, getErr := svc.Get(ctx, record.ID)
	if getErr != nil {
		t.Fatalf("get: %v", getErr)
	}
	if got.Subject != "Still persisted" {
		t.Fatalf("unexpected subject %q", got.Subject)
	}
}
