package storage

import (
	"context"
	"database/sql"

	bunrepo "github.com/goliatone/go-notifiable/internal/storage/bun"
	"github.com/goliatone/go-notifiable/internal/storage/memory"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Entries       store.NotifiableEntryRepository
	Notifications store.NotificationRepository
	Assignments   store.AssignmentRepository
	Transaction   store.TransactionManager
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders() Providers {
	return Providers{
		Entries:       memory.NewNotifiableEntryRepository(),
		Notifications: memory.NewNotificationRepository(),
		Assignments:   memory.NewAssignmentRepository(),
		Transaction:   &store.NopTransactionManager{},
	}
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller is responsible for creating the *bun.DB instance (potentially
// via go-persistence-bun) and managing its lifecycle.
func NewBunProviders(db *bun.DB) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(
		(*domain.NotifiableEntry)(nil),
		(*domain.Notification)(nil),
		(*domain.NotificationAssignment)(nil),
	)

	return Providers{
		Entries:       bunrepo.NewNotifiableEntryRepository(db),
		Notifications: bunrepo.NewNotificationRepository(db),
		Assignments:   bunrepo.NewAssignmentRepository(db),
		Transaction:   &bunTxManager{db: db},
	}
}

type bunTxManager struct {
	db *bun.DB
}

// WithinTransaction opens one transaction for the batch and stamps it into
// the context so every repository call inside fn runs against it. Nested
// calls join the already open transaction.
func (m *bunTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	if bunrepo.InTransaction(ctx) {
		return fn(ctx)
	}
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(bunrepo.ContextWithTx(ctx, tx))
	})
}
