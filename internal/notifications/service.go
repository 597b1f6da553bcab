package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-notifiable/pkg/activity"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/bus"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

// CreateInput captures the fields required to create a notification.
type CreateInput struct {
	Subject  string
	Message  string
	Link     string
	Date     time.Time
	Metadata domain.JSONMap
}

// Dependencies wires repositories and the event bus into the service.
type Dependencies struct {
	Notifications store.NotificationRepository
	Assignments   store.AssignmentRepository
	Transaction   store.TransactionManager
	Bus           bus.Bus
	Logger        logger.Logger
	Activity      activity.Hooks
}

// Service manages notification records: creation, field mutation, and
// deletion with assignment cascade. Lifecycle events publish after the write
// succeeds; a failing listener propagates even though the mutation is already
// committed.
type Service struct {
	notifications store.NotificationRepository
	assignments   store.AssignmentRepository
	tx            store.TransactionManager
	bus           bus.Bus
	logger        logger.Logger
	activity      activity.Hooks
}

var (
	errNotificationsRequired = errors.New("notifications: notification repository is required")
	errAssignmentsRequired   = errors.New("notifications: assignment repository is required")
	errSubjectRequired       = errors.New("notifications: subject is required")
)

// NewService constructs the notification service.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Notifications == nil {
		return nil, errNotificationsRequired
	}
	if deps.Assignments == nil {
		return nil, errAssignmentsRequired
	}
	if deps.Transaction == nil {
		deps.Transaction = &store.NopTransactionManager{}
	}
	if deps.Bus == nil {
		deps.Bus = &bus.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		notifications: deps.Notifications,
		assignments:   deps.Assignments,
		tx:            deps.Transaction,
		bus:           deps.Bus,
		logger:        deps.Logger,
		activity:      deps.Activity,
	}, nil
}

// Create persists a new notification and publishes notification.created.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Notification, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, errSubjectRequired
	}
	record := &domain.Notification{
		Subject:  input.Subject,
		Message:  input.Message,
		Link:     input.Link,
		Date:     input.Date,
		Metadata: cloneJSON(input.Metadata),
	}
	if record.Date.IsZero() {
		record.Date = time.Now().UTC()
	}
	if err := s.notifications.Create(ctx, record); err != nil {
		return nil, err
	}
	s.activity.Notify(ctx, activity.Event{
		Verb:       "notification.created",
		ObjectType: "notification",
		ObjectID:   record.ID.String(),
		Metadata:   map[string]any{"subject": record.Subject},
	})
	if err := s.publish(ctx, domain.TopicCreated, record, nil); err != nil {
		return record, err
	}
	return record, nil
}

// Get fetches a notification by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.notifications.GetByID(ctx, id)
}

// List returns notifications applying the supplied options.
func (s *Service) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return s.notifications.List(ctx, opts)
}

// SetSubject updates the subject and publishes notification.modified.
func (s *Service) SetSubject(ctx context.Context, id uuid.UUID, subject string) (*domain.Notification, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errSubjectRequired
	}
	return s.mutate(ctx, id, func(record *domain.Notification) {
		record.Subject = subject
	})
}

// SetMessage updates the message and publishes notification.modified.
func (s *Service) SetMessage(ctx context.Context, id uuid.UUID, message string) (*domain.Notification, error) {
	return s.mutate(ctx, id, func(record *domain.Notification) {
		record.Message = message
	})
}

// SetLink updates the link and publishes notification.modified.
func (s *Service) SetLink(ctx context.Context, id uuid.UUID, link string) (*domain.Notification, error) {
	return s.mutate(ctx, id, func(record *domain.Notification) {
		record.Link = link
	})
}

// SetDate updates the date and publishes notification.modified.
func (s *Service) SetDate(ctx context.Context, id uuid.UUID, date time.Time) (*domain.Notification, error) {
	return s.mutate(ctx, id, func(record *domain.Notification) {
		record.Date = date
	})
}

// Delete removes the notification's assignment links, soft-deletes the
// record, and publishes notification.deleted once the cascade committed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.assignments.DeleteByNotification(ctx, id); err != nil {
			return err
		}
		return s.notifications.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.activity.Notify(ctx, activity.Event{
		Verb:       "notification.deleted",
		ObjectType: "notification",
		ObjectID:   record.ID.String(),
	})
	return s.publish(ctx, domain.TopicDeleted, record, nil)
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, apply func(*domain.Notification)) (*domain.Notification, error) {
	record, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(record)
	if err := s.notifications.Update(ctx, record); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, domain.TopicModified, record, nil); err != nil {
		return record, err
	}
	return record, nil
}

func (s *Service) publish(ctx context.Context, topic string, record *domain.Notification, entry *domain.NotifiableEntry) error {
	return s.bus.Publish(ctx, bus.Event{
		Topic:   topic,
		Payload: domain.Envelope{Notification: record, Entry: entry},
	})
}

func cloneJSON(src domain.JSONMap) domain.JSONMap {
	if len(src) == 0 {
		return nil
	}
	out := make(domain.JSONMap, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
