package memory

import (
	"context"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

// NotifiableEntryRepository is the in-memory directory store.
type NotifiableEntryRepository struct {
	base baseMemoryRepo[domain.NotifiableEntry]
}

func NewNotifiableEntryRepository() *NotifiableEntryRepository {
	return &NotifiableEntryRepository{
		base: newBaseMemoryRepo(func(e *domain.NotifiableEntry) *domain.RecordMeta { return &e.RecordMeta }),
	}
}

var _ store.NotifiableEntryRepository = (*NotifiableEntryRepository)(nil)

// Create enforces the (kind, identifier) uniqueness the relational schema
// guarantees, reporting ErrConflict so callers re-fetch.
func (r *NotifiableEntryRepository) Create(ctx context.Context, entry *domain.NotifiableEntry) error {
	r.base.mu.Lock()
	defer r.base.mu.Unlock()

	for _, existing := range r.base.records {
		if existing.Kind == entry.Kind && existing.Identifier == entry.Identifier && existing.DeletedAt.IsZero() {
			return store.ErrConflict
		}
	}
	entry.EnsureID()
	now := timeNow()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	r.base.records[entry.ID] = *entry
	return nil
}

func (r *NotifiableEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotifiableEntry, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *NotifiableEntryRepository) GetByIdentity(ctx context.Context, kind, identifier string) (*domain.NotifiableEntry, error) {
	r.base.mu.RLock()
	defer r.base.mu.RUnlock()

	for _, entry := range r.base.records {
		if entry.Kind == kind && entry.Identifier == identifier && entry.DeletedAt.IsZero() {
			found := entry
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *NotifiableEntryRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.NotifiableEntry], error) {
	return r.base.list(ctx, opts)
}
