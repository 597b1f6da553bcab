package notifiable

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-notifiable/internal/assignments"
	"github.com/goliatone/go-notifiable/internal/directory"
	"github.com/goliatone/go-notifiable/internal/notifications"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

// CreateInput mirrors notifications.CreateInput for facade callers.
type CreateInput = notifications.CreateInput

// Manager is the single entry point callers operate on: it resolves
// identities, maintains the directory, and orchestrates notification and
// assignment state, publishing a lifecycle event for every mutation.
type Manager struct {
	directory     *directory.Service
	notifications *notifications.Service
	assignments   *assignments.Service
	logger        logger.Logger
}

var errManagerNotInitialised = errors.New("notifiable: manager not initialised")

func newManager(dir *directory.Service, notif *notifications.Service, assign *assignments.Service, lgr logger.Logger) *Manager {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	return &Manager{
		directory:     dir,
		notifications: notif,
		assignments:   assign,
		logger:        lgr,
	}
}

// CreateNotification persists a notification and publishes notification.created.
func (m *Manager) CreateNotification(ctx context.Context, input CreateInput) (*domain.Notification, error) {
	if m == nil || m.notifications == nil {
		return nil, errManagerNotInitialised
	}
	return m.notifications.Create(ctx, input)
}

// Notify creates a notification and assigns it to the recipients in one call.
func (m *Manager) Notify(ctx context.Context, input CreateInput, notifiables ...any) (*domain.Notification, error) {
	record, err := m.CreateNotification(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(notifiables) == 0 {
		return record, nil
	}
	if err := m.assignments.Assign(ctx, record.ID, notifiables...); err != nil {
		return nil, err
	}
	return record, nil
}

// GetNotification fetches a notification by id.
func (m *Manager) GetNotification(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return m.notifications.Get(ctx, id)
}

// ListNotifications returns notifications applying the supplied options.
func (m *Manager) ListNotifications(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return m.notifications.List(ctx, opts)
}

// SetSubject updates the notification subject.
func (m *Manager) SetSubject(ctx context.Context, id uuid.UUID, subject string) (*domain.Notification, error) {
	return m.notifications.SetSubject(ctx, id, subject)
}

// SetMessage updates the notification message.
func (m *Manager) SetMessage(ctx context.Context, id uuid.UUID, message string) (*domain.Notification, error) {
	return m.notifications.SetMessage(ctx, id, message)
}

// SetLink updates the notification link.
func (m *Manager) SetLink(ctx context.Context, id uuid.UUID, link string) (*domain.Notification, error) {
	return m.notifications.SetLink(ctx, id, link)
}

// SetDate updates the notification date.
func (m *Manager) SetDate(ctx context.Context, id uuid.UUID, date time.Time) (*domain.Notification, error) {
	return m.notifications.SetDate(ctx, id, date)
}

// DeleteNotification removes the notification and all its assignment links.
func (m *Manager) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	return m.notifications.Delete(ctx, id)
}

// Assign links the notification to every notifiable, unseen.
func (m *Manager) Assign(ctx context.Context, notificationID uuid.UUID, notifiables ...any) error {
	return m.assignments.Assign(ctx, notificationID, notifiables...)
}

// Unassign removes the links; recipients without one are silent no-ops.
func (m *Manager) Unassign(ctx context.Context, notificationID uuid.UUID, notifiables ...any) error {
	return m.assignments.Unassign(ctx, notificationID, notifiables...)
}

// FindLink returns the assignment for the pair, store.ErrNotFound when absent.
func (m *Manager) FindLink(ctx context.Context, notifiable any, notificationID uuid.UUID) (*domain.NotificationAssignment, error) {
	return m.assignments.FindLink(ctx, notifiable, notificationID)
}

// MarkSeen flags the pair's link as seen.
func (m *Manager) MarkSeen(ctx context.Context, notifiable any, notificationID uuid.UUID) error {
	return m.assignments.MarkSeen(ctx, notifiable, notificationID)
}

// MarkUnseen flags the pair's link as unseen.
func (m *Manager) MarkUnseen(ctx context.Context, notifiable any, notificationID uuid.UUID) error {
	return m.assignments.MarkUnseen(ctx, notifiable, notificationID)
}

// MarkAllSeen flags every link of the notifiable as seen.
func (m *Manager) MarkAllSeen(ctx context.Context, notifiable any) error {
	return m.assignments.MarkAllSeen(ctx, notifiable)
}

// IsSeen reports the pair's seen flag; store.ErrNotFound when unassigned.
func (m *Manager) IsSeen(ctx context.Context, notifiable any, notificationID uuid.UUID) (bool, error) {
	return m.assignments.IsSeen(ctx, notifiable, notificationID)
}

// CountAll returns how many notifications are assigned to the notifiable.
func (m *Manager) CountAll(ctx context.Context, notifiable any) (int, error) {
	return m.assignments.CountAll(ctx, notifiable)
}

// CountSeen returns the notifiable's seen assignment count.
func (m *Manager) CountSeen(ctx context.Context, notifiable any) (int, error) {
	return m.assignments.CountSeen(ctx, notifiable)
}

// CountUnseen returns the notifiable's unseen assignment count.
func (m *Manager) CountUnseen(ctx context.Context, notifiable any) (int, error) {
	return m.assignments.CountUnseen(ctx, notifiable)
}

// Assignments returns the notifiable's links filtered by seen state.
func (m *Manager) Assignments(ctx context.Context, notifiable any, filter store.SeenFilter) ([]domain.NotificationAssignment, error) {
	return m.assignments.ListForNotifiable(ctx, notifiable, filter)
}

// Recipients enumerates the live notifiables a notification was assigned to.
func (m *Manager) Recipients(ctx context.Context, notificationID uuid.UUID, filter store.SeenFilter) ([]any, error) {
	return m.assignments.Recipients(ctx, notificationID, filter)
}

// Entry returns the notifiable's directory entry, creating it when absent.
func (m *Manager) Entry(ctx context.Context, notifiable any) (*domain.NotifiableEntry, error) {
	return m.directory.GetOrCreate(ctx, notifiable)
}

// EntryByID fetches a directory entry by its storage key.
func (m *Manager) EntryByID(ctx context.Context, id uuid.UUID) (*domain.NotifiableEntry, error) {
	return m.directory.GetByID(ctx, id)
}

// ResolveEntry reconstructs the live notifiable behind a directory entry.
func (m *Manager) ResolveEntry(ctx context.Context, entry *domain.NotifiableEntry) (any, error) {
	return m.directory.Resolve(ctx, entry)
}
