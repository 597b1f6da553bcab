package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.DriverName(), "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	models := []any{
		(*domain.NotifiableEntry)(nil),
		(*domain.Notification)(nil),
		(*domain.NotificationAssignment)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func TestBunTransactionRollsBackBatch(t *testing.T) {
	providers := NewBunProviders(setupSQLiteDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := providers.Entries.Create(ctx, &domain.NotifiableEntry{Kind: "user", Identifier: "u1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	if _, err := providers.Entries.GetByIdentity(ctx, "user", "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected rollback to discard the entry, got %v", err)
	}
}

func TestBunTransactionCommitsBatch(t *testing.T) {
	providers := NewBunProviders(setupSQLiteDB(t))
	ctx := context.Background()

	record := &domain.Notification{Subject: "Deploy finished"}
	if err := providers.Notifications.Create(ctx, record); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	var entryID [2]*domain.NotifiableEntry
	err := providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		for i, identifier := range []string{"u1", "u2"} {
			entry := &domain.NotifiableEntry{Kind: "user", Identifier: identifier}
			if err := providers.Entries.Create(ctx, entry); err != nil {
				return err
			}
			entryID[i] = entry
			link := &domain.NotificationAssignment{EntryID: entry.ID, NotificationID: record.ID}
			if err := providers.Assignments.Create(ctx, link); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	for _, entry := range entryID {
		if _, err := providers.Assignments.GetByPair(ctx, entry.ID, record.ID); err != nil {
			t.Fatalf("expected committed link for %s: %v", entry.Identifier, err)
		}
	}
}

func TestBunTransactionNestedJoins(t *testing.T) {
	providers := NewBunProviders(setupSQLiteDB(t))
	ctx := context.Background()

	err := providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		return providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
			return providers.Entries.Create(ctx, &domain.NotifiableEntry{Kind: "user", Identifier: "nested"})
		})
	})
	if err != nil {
		t.Fatalf("nested transaction: %v", err)
	}
	if _, err := providers.Entries.GetByIdentity(ctx, "user", "nested"); err != nil {
		t.Fatalf("expected nested write committed, got %v", err)
	}
}

func TestMemoryProvidersTransactionIsImmediate(t *testing.T) {
	providers := NewMemoryProviders()
	ctx := context.Background()

	err := providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		return providers.Entries.Create(ctx, &domain.NotifiableEntry{Kind: "user", Identifier: "u1"})
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if _, err := providers.Entries.GetByIdentity(ctx, "user", "u1"); err != nil {
		t.Fatalf("expected entry visible, got %v", err)
	}
}
