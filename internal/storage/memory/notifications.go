package memory

import (
	"context"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

// NotificationRepository is the in-memory notification store.
type NotificationRepository struct {
	base baseMemoryRepo[domain.Notification]
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		base: newBaseMemoryRepo(func(n *domain.Notification) *domain.RecordMeta { return &n.RecordMeta }),
	}
}

var _ store.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, record *domain.Notification) error {
	return r.base.create(ctx, record)
}

func (r *NotificationRepository) Update(ctx context.Context, record *domain.Notification) error {
	return r.base.update(ctx, record)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *NotificationRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return r.base.list(ctx, opts)
}

func (r *NotificationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
