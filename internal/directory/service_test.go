package directory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-notifiable/internal/storage/memory"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/goliatone/go-notifiable/pkg/registry"
)

type testUser struct {
	ID string
}

type testTeam struct {
	Org  string
	Slug string
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]registry.Descriptor{
		{
			Name:      "user",
			Prototype: &testUser{},
			Fields: []registry.Field{
				{Name: "id", Value: func(n any) (string, error) { return n.(*testUser).ID, nil }},
			},
		},
		{
			Name:      "team",
			Prototype: &testTeam{},
			Fields: []registry.Field{
				{Name: "org", Value: func(n any) (string, error) { return n.(*testTeam).Org, nil }},
				{Name: "slug", Value: func(n any) (string, error) { return n.(*testTeam).Slug, nil }},
			},
		},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, err := NewService(Dependencies{
		Registry: newTestRegistry(t),
		Entries:  memory.NewNotifiableEntryRepository(),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	ctx := context.Background()
	user := &testUser{ID: "u42"}

	first, err := svc.GetOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first.Kind != "user" || first.Identifier != "u42" {
		t.Fatalf("unexpected entry %s/%s", first.Kind, first.Identifier)
	}

	second, err := svc.GetOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same entry, got %s and %s", first.ID, second.ID)
	}
}

func TestGetOrCreateCompositeKey(t *testing.T) {
	svc, err := NewService(Dependencies{
		Registry: newTestRegistry(t),
		Entries:  memory.NewNotifiableEntryRepository(),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	entry, err := svc.GetOrCreate(context.Background(), &testTeam{Org: "acme", Slug: "ops"})
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if entry.Identifier != "acme-ops" {
		t.Fatalf("expected key acme-ops, got %s", entry.Identifier)
	}
}

func TestGetOrCreateRejectsUnregistered(t *testing.T) {
	svc, err := NewService(Dependencies{
		Registry: newTestRegistry(t),
		Entries:  memory.NewNotifiableEntryRepository(),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	type order struct{ ID string }
	if _, err := svc.GetOrCreate(context.Background(), &order{ID: "o1"}); !errors.Is(err, registry.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

// conflictOnceRepo simulates losing the create race: the first Create reports
// a conflict after a concurrent writer inserted the row.
type conflictOnceRepo struct {
	*memory.NotifiableEntryRepository
	conflicted bool
}

func (r *conflictOnceRepo) Create(ctx context.Context, entry *domain.NotifiableEntry) error {
	if !r.conflicted {
		r.conflicted = true
		winner := &domain.NotifiableEntry{Kind: entry.Kind, Identifier: entry.Identifier}
		if err := r.NotifiableEntryRepository.Create(ctx, winner); err != nil {
			return err
		}
		return store.ErrConflict
	}
	return r.NotifiableEntryRepository.Create(ctx, entry)
}

func TestGetOrCreateRefetchesOnConflict(t *testing.T) {
	repo := &conflictOnceRepo{NotifiableEntryRepository: memory.NewNotifiableEntryRepository()}
	svc, err := NewService(Dependencies{
		Registry: newTestRegistry(t),
		Entries:  repo,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	entry, err := svc.GetOrCreate(context.Background(), &testUser{ID: "u1"})
	if err != nil {
		t.Fatalf("expected conflict to resolve via re-fetch, got %v", err)
	}
	if entry.Identifier != "u1" {
		t.Fatalf("unexpected identifier %s", entry.Identifier)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	users := map[string]*testUser{"u1": {ID: "u1"}}
	source := registry.SourceFunc(func(ctx context.Context, kind string, values []string) (any, error) {
		if kind != "user" {
			return nil, fmt.Errorf("unexpected kind %s", kind)
		}
		user, ok := users[values[0]]
		if !ok {
			return nil, store.ErrNotFound
		}
		return user, nil
	})
	svc, err := NewService(Dependencies{
		Registry: newTestRegistry(t),
		Entries:  memory.NewNotifiableEntryRepository(),
		Source:   source,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	ctx := context.Background()

	entry, err := svc.GetOrCreate(ctx, users["u1"])
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	resolved, err := svc.Resolve(ctx, entry)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != users["u1"] {
		t.Fatalf("expected the registered user back, got %#v", resolved)
	}
}

func TestResolveWithoutSource(t *testing.T) {
	svc, err := NewService(Dependencies{
		Registry: newTestRegistry(t),
		Entries:  memory.NewNotifiableEntryRepository(),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	entry := &domain.NotifiableEntry{Kind: "user", Identifier: "u1"}
	if _, err := svc.Resolve(context.Background(), entry); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}
