package bunrepo

import (
	"context"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotificationRepository persists notification records.
type NotificationRepository struct {
	base baseRepository[domain.Notification]
}

func NewNotificationRepository(db *bun.DB) *NotificationRepository {
	handlers := repository.ModelHandlers[*domain.Notification]{
		NewRecord:          func() *domain.Notification { return &domain.Notification{} },
		GetID:              func(n *domain.Notification) uuid.UUID { return n.ID },
		SetID:              func(n *domain.Notification, id uuid.UUID) { n.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(n *domain.Notification) string { return n.ID.String() },
	}
	return &NotificationRepository{
		base: newBaseRepository[domain.Notification](db, handlers, func(n *domain.Notification) *domain.RecordMeta { return &n.RecordMeta }),
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
