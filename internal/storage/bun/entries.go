package bunrepo

import (
	"context"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotifiableEntryRepository persists directory rows via go-repository-bun.
type NotifiableEntryRepository struct {
	base baseRepository[domain.NotifiableEntry]
}

func NewNotifiableEntryRepository(db *bun.DB) *NotifiableEntryRepository {
	handlers := repository.ModelHandlers[*domain.NotifiableEntry]{
		NewRecord:          func() *domain.NotifiableEntry { return &domain.NotifiableEntry{} },
		GetID:              func(e *domain.NotifiableEntry) uuid.UUID { return e.ID },
		SetID:              func(e *domain.NotifiableEntry, id uuid.UUID) { e.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(e *domain.NotifiableEntry) string { return e.ID.String() },
	}
	return &NotifiableEntryRepository{
		base: newBaseRepository[domain.NotifiableEntry](db, handlers, func(e *domain.NotifiableEntry) *domain.RecordMeta { return &e.RecordMeta }),
	}
}

var _ store.NotifiableEntryRepository = (*NotifiableEntryRepository)(nil)

func (r *NotifiableEntryRepository) Create(ctx context.Context, entry *domain.NotifiableEntry) error {
	return r.base.create(ctx, entry)
}

func (r *NotifiableEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotifiableEntry, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *NotifiableEntryRepository) GetByIdentity(ctx context.Context, kind, identifier string) (*domain.NotifiableEntry, error) {
	record, err := r.base.repo.GetTx(ctx, r.base.conn(ctx), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("kind = ?", kind).Where("identifier = ?", identifier)
	}, withoutDeleted())
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (r *NotifiableEntryRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.NotifiableEntry], error) {
	return r.base.list(ctx, opts)
}
