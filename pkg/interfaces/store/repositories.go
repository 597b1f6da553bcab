package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ErrConflict is returned when a write loses a race against a uniqueness
// constraint. Callers should re-fetch; the other writer's row is the record.
var ErrConflict = errors.New("store: conflict")

// ErrAmbiguous is returned when a query that must match at most one row
// matches several. It indicates the assignment uniqueness invariant was
// violated and should be surfaced, not silently resolved.
var ErrAmbiguous = errors.New("store: ambiguous result")

// SeenFilter narrows assignment queries by the per-recipient seen flag.
type SeenFilter int

const (
	SeenAny SeenFilter = iota
	SeenOnly
	UnseenOnly
)

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// NotifiableEntryRepository persists directory rows. Entries are immutable
// after creation, so there is no update surface.
type NotifiableEntryRepository interface {
	Create(ctx context.Context, entry *domain.NotifiableEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.NotifiableEntry, error)
	GetByIdentity(ctx context.Context, kind, identifier string) (*domain.NotifiableEntry, error)
	List(ctx context.Context, opts ListOptions) (ListResult[domain.NotifiableEntry], error)
}

// NotificationRepository persists notification records.
type NotificationRepository interface {
	Create(ctx context.Context, record *domain.Notification) error
	Update(ctx context.Context, record *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, opts ListOptions) (ListResult[domain.Notification], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// AssignmentRepository persists the notification/notifiable linkage.
type AssignmentRepository interface {
	Create(ctx context.Context, link *domain.NotificationAssignment) error
	// GetByPair returns ErrNotFound when no link exists and ErrAmbiguous when
	// more than one row matches the pair.
	GetByPair(ctx context.Context, entryID, notificationID uuid.UUID) (*domain.NotificationAssignment, error)
	SetSeen(ctx context.Context, id uuid.UUID, seen bool) error
	// DeleteByPair removes the link directly and reports how many rows went
	// away; zero is not an error.
	DeleteByPair(ctx context.Context, entryID, notificationID uuid.UUID) (int, error)
	DeleteByNotification(ctx context.Context, notificationID uuid.UUID) (int, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID, filter SeenFilter) ([]domain.NotificationAssignment, error)
	ListByNotification(ctx context.Context, notificationID uuid.UUID, filter SeenFilter) ([]domain.NotificationAssignment, error)
	CountByEntry(ctx context.Context, entryID uuid.UUID, filter SeenFilter) (int, error)
}
