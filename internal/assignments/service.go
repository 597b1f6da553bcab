package assignments

import (
	"context"
	"errors"

	"github.com/goliatone/go-notifiable/internal/directory"
	"github.com/goliatone/go-notifiable/pkg/activity"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/bus"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

// Dependencies wires the directory, repositories, and event bus.
type Dependencies struct {
	Directory     *directory.Service
	Assignments   store.AssignmentRepository
	Notifications store.NotificationRepository
	Transaction   store.TransactionManager
	Bus           bus.Bus
	Logger        logger.Logger
	Activity      activity.Hooks
}

// Service is the assignment ledger: it creates, queries, and mutates the
// per-recipient links between notifications and directory entries.
// Multi-recipient operations batch their writes in one transaction; lifecycle
// events publish after the transaction commits, and a failing listener
// propagates to the caller.
type Service struct {
	directory     *directory.Service
	assignments   store.AssignmentRepository
	notifications store.NotificationRepository
	tx            store.TransactionManager
	bus           bus.Bus
	logger        logger.Logger
	activity      activity.Hooks
}

var (
	errDirectoryRequired     = errors.New("assignments: directory service is required")
	errAssignmentsRequired   = errors.New("assignments: assignment repository is required")
	errNotificationsRequired = errors.New("assignments: notification repository is required")
)

// NewService constructs the assignment ledger service.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Directory == nil {
		return nil, errDirectoryRequired
	}
	if deps.Assignments == nil {
		return nil, errAssignmentsRequired
	}
	if deps.Notifications == nil {
		return nil, errNotificationsRequired
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
		directory:     deps.Directory,
		assignments:   deps.Assignments,
		notifications: deps.Notifications,
		tx:            deps.Transaction,
		bus:           deps.Bus,
		logger:        deps.Logger,
		activity:      deps.Activity,
	}, nil
}

// Assign links the notification to every notifiable, creating directory
// entries as needed. Links start unseen. All writes share one transaction;
// one notification.assigned event publishes per recipient afterwards.
func (s *Service) Assign(ctx context.Context, notificationID uuid.UUID, notifiables ...any) error {
	record, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	entries := make([]*domain.NotifiableEntry, 0, len(notifiables))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, notifiable := range notifiables {
			entry, err := s.directory.GetOrCreate(ctx, notifiable)
			if err != nil {
				return err
			}
			link := &domain.NotificationAssignment{
				EntryID:        entry.ID,
				NotificationID: record.ID,
				Seen:           false,
			}
			if err := s.assignments.Create(ctx, link); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, entry := range entries {
		s.activity.Notify(ctx, activity.Event{
			Verb:       "notification.assigned",
			UserID:     entry.Identifier,
			ObjectType: "notification",
			ObjectID:   record.ID.String(),
			Metadata:   map[string]any{"kind": entry.Kind},
		})
		if err := s.publish(ctx, domain.TopicAssigned, record, entry); err != nil {
			return err
		}
	}
	return nil
}

// Unassign deletes the links between the notification and the notifiables.
// Recipients without a link are silent no-ops; notification.removed publishes
// only for links that actually existed.
func (s *Service) Unassign(ctx context.Context, notificationID uuid.UUID, notifiables ...any) error {
	record, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	removed := make([]*domain.NotifiableEntry, 0, len(notifiables))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, notifiable := range notifiables {
			entry, err := s.directory.GetOrCreate(ctx, notifiable)
			if err != nil {
				return err
			}
			deleted, err := s.assignments.DeleteByPair(ctx, entry.ID, record.ID)
			if err != nil {
				return err
			}
			if deleted > 0 {
				removed = append(removed, entry)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, entry := range removed {
		s.activity.Notify(ctx, activity.Event{
			Verb:       "notification.removed",
			UserID:     entry.Identifier,
			ObjectType: "notification",
			ObjectID:   record.ID.String(),
			Metadata:   map[string]any{"kind": entry.Kind},
		})
		if err := s.publish(ctx, domain.TopicRemoved, record, entry); err != nil {
			return err
		}
	}
	return nil
}

// FindLink returns the link for the (notifiable, notification) pair.
// store.ErrNotFound when absent; store.ErrAmbiguous surfaces a violated
// uniqueness invariant and is never silently resolved.
func (s *Service) FindLink(ctx context.Context, notifiable any, notificationID uuid.UUID) (*domain.NotificationAssignment, error) {
	entry, err := s.directory.GetOrCreate(ctx, notifiable)
	if err != nil {
		return nil, err
	}
	return s.assignments.GetByPair(ctx, entry.ID, notificationID)
}

// MarkSeen flags the link as seen and publishes notification.seen.
func (s *Service) MarkSeen(ctx context.Context, notifiable any, notificationID uuid.UUID) error {
	return s.setSeen(ctx, notifiable, notificationID, true)
}

// MarkUnseen flags the link as unseen and publishes notification.unseen.
func (s *Service) MarkUnseen(ctx context.Context, notifiable any, notificationID uuid.UUID) error {
	return s.setSeen(ctx, notifiable, notificationID, false)
}

func (s *Service) setSeen(ctx context.Context, notifiable any, notificationID uuid.UUID, seen bool) error {
	link, err := s.FindLink(ctx, notifiable, notificationID)
	if err != nil {
		return err
	}
	record, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	entry, err := s.directory.GetByID(ctx, link.EntryID)
	if err != nil {
		return err
	}
	if err := s.assignments.SetSeen(ctx, link.ID, seen); err != nil {
		return err
	}
	topic := domain.TopicSeen
	verb := "notification.seen"
	if !seen {
		topic = domain.TopicUnseen
		verb = "notification.unseen"
	}
	s.activity.Notify(ctx, activity.Event{
		Verb:       verb,
		UserID:     entry.Identifier,
		ObjectType: "notification",
		ObjectID:   record.ID.String(),
	})
	return s.publish(ctx, topic, record, entry)
}

// MarkAllSeen flags every link of the notifiable as seen in one transaction
// and publishes one notification.seen event per flipped link.
func (s *Service) MarkAllSeen(ctx context.Context, notifiable any) error {
	entry, err := s.directory.GetOrCreate(ctx, notifiable)
	if err != nil {
		return err
	}
	links, err := s.assignments.ListByEntry(ctx, entry.ID, store.UnseenOnly)
	if err != nil {
		return err
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, link := range links {
			if err := s.assignments.SetSeen(ctx, link.ID, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, link := range links {
		record, err := s.notifications.GetByID(ctx, link.NotificationID)
		if err != nil {
			return err
		}
		if err := s.publish(ctx, domain.TopicSeen, record, entry); err != nil {
			return err
		}
	}
	return nil
}

// IsSeen reports the link's seen flag. An unassigned pair surfaces as
// store.ErrNotFound; callers needing to distinguish "never assigned" call
// FindLink directly.
func (s *Service) IsSeen(ctx context.Context, notifiable any, notificationID uuid.UUID) (bool, error) {
	link, err := s.FindLink(ctx, notifiable, notificationID)
	if err != nil {
		return false, err
	}
	return link.Seen, nil
}

// CountAll returns the number of notifications assigned to the notifiable.
func (s *Service) CountAll(ctx context.Context, notifiable any) (int, error) {
	return s.count(ctx, notifiable, store.SeenAny)
}

// CountSeen returns the number of seen assignments.
func (s *Service) CountSeen(ctx context.Context, notifiable any) (int, error) {
	return s.count(ctx, notifiable, store.SeenOnly)
}

// CountUnseen returns the number of unseen assignments.
func (s *Service) CountUnseen(ctx context.Context, notifiable any) (int, error) {
	return s.count(ctx, notifiable, store.UnseenOnly)
}

func (s *Service) count(ctx context.Context, notifiable any, filter store.SeenFilter) (int, error) {
	entry, err := s.directory.GetOrCreate(ctx, notifiable)
	if err != nil {
		return 0, err
	}
	return s.assignments.CountByEntry(ctx, entry.ID, filter)
}

// ListForNotifiable returns the notifiable's assignments filtered by seen state.
func (s *Service) ListForNotifiable(ctx context.Context, notifiable any, filter store.SeenFilter) ([]domain.NotificationAssignment, error) {
	entry, err := s.directory.GetOrCreate(ctx, notifiable)
	if err != nil {
		return nil, err
	}
	return s.assignments.ListByEntry(ctx, entry.ID, filter)
}

// Recipients enumerates the live notifiables a notification was assigned to,
// reconstructed through the directory's reverse resolution.
func (s *Service) Recipients(ctx context.Context, notificationID uuid.UUID, filter store.SeenFilter) ([]any, error) {
	links, err := s.assignments.ListByNotification(ctx, notificationID, filter)
	if err != nil {
		return nil, err
	}
	recipients := make([]any, 0, len(links))
	for _, link := range links {
		entry, err := s.directory.GetByID(ctx, link.EntryID)
		if err != nil {
			return nil, err
		}
		notifiable, err := s.directory.Resolve(ctx, entry)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, notifiable)
	}
	return recipients, nil
}

func (s *Service) publish(ctx context.Context, topic string, record *domain.Notification, entry *domain.NotifiableEntry) error {
	return s.bus.Publish(ctx, bus.Event{
		Topic:   topic,
		Payload: domain.Envelope{Notification: record, Entry: entry},
	})
}
