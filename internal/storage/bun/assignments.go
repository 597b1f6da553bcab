package bunrepo

import (
	"context"
	"time"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AssignmentRepository persists the notification/notifiable linkage with
// direct bun queries; the ledger is dominated by pair lookups and bulk
// deletes that the generic base repository does not cover.
type AssignmentRepository struct {
	db *bun.DB
}

func NewAssignmentRepository(db *bun.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

var _ store.AssignmentRepository = (*AssignmentRepository)(nil)

func (r *AssignmentRepository) conn(ctx context.Context) bun.IDB {
	return connFromContext(ctx, r.db)
}

func (r *AssignmentRepository) Create(ctx context.Context, link *domain.NotificationAssignment) error {
	link.EnsureID()
	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now
	_, err := r.conn(ctx).NewInsert().Model(link).Exec(ctx)
	return mapError(err)
}

func (r *AssignmentRepository) GetByPair(ctx context.Context, entryID, notificationID uuid.UUID) (*domain.NotificationAssignment, error) {
	var links []domain.NotificationAssignment
	err := r.conn(ctx).NewSelect().
		Model(&links).
		Where("entry_id = ?", entryID).
		Where("notification_id = ?", notificationID).
		Limit(2).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	switch len(links) {
	case 0:
		return nil, store.ErrNotFound
	case 1:
		link := links[0]
		return &link, nil
	default:
		return nil, store.ErrAmbiguous
	}
}

func (r *AssignmentRepository) SetSeen(ctx context.Context, id uuid.UUID, seen bool) error {
	res, err := r.conn(ctx).NewUpdate().
		Model((*domain.NotificationAssignment)(nil)).
		Set("seen = ?", seen).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) DeleteByPair(ctx context.Context, entryID, notificationID uuid.UUID) (int, error) {
	res, err := r.conn(ctx).NewDelete().
		Model((*domain.NotificationAssignment)(nil)).
		Where("entry_id = ?", entryID).
		Where("notification_id = ?", notificationID).
		Exec(ctx)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *AssignmentRepository) DeleteByNotification(ctx context.Context, notificationID uuid.UUID) (int, error) {
	res, err := r.conn(ctx).NewDelete().
		Model((*domain.NotificationAssignment)(nil)).
		Where("notification_id = ?", notificationID).
		Exec(ctx)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *AssignmentRepository) ListByEntry(ctx context.Context, entryID uuid.UUID, filter store.SeenFilter) ([]domain.NotificationAssignment, error) {
	var links []domain.NotificationAssignment
	q := r.conn(ctx).NewSelect().
		Model(&links).
		Where("entry_id = ?", entryID).
		Order("created_at ASC")
	err := withSeenFilter(filter)(q).Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return links, nil
}

func (r *AssignmentRepository) ListByNotification(ctx context.Context, notificationID uuid.UUID, filter store.SeenFilter) ([]domain.NotificationAssignment, error) {
	var links []domain.NotificationAssignment
	q := r.conn(ctx).NewSelect().
		Model(&links).
		Where("notification_id = ?", notificationID).
		Order("created_at ASC")
	err := withSeenFilter(filter)(q).Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return links, nil
}

func (r *AssignmentRepository) CountByEntry(ctx context.Context, entryID uuid.UUID, filter store.SeenFilter) (int, error) {
	q := r.conn(ctx).NewSelect().
		Model((*domain.NotificationAssignment)(nil)).
		Where("entry_id = ?", entryID)
	count, err := withSeenFilter(filter)(q).Count(ctx)
	return count, mapError(err)
}
