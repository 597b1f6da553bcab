package commands

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/goliatone/go-notifiable/pkg/notifiable"
	"github.com/goliatone/go-notifiable/pkg/registry"
)

type testUser struct {
	ID   string
	Name string
}

func userDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:      "user",
		Prototype: &testUser{},
		Fields: []registry.Field{
			{Name: "id", Value: func(n any) (string, error) {
				user, ok := n.(*testUser)
				if !ok {
					return "", fmt.Errorf("expected *testUser, got %T", n)
				}
				return user.ID, nil
			}},
		},
	}
}

func newTestModule(t *testing.T, users map[string]*testUser) *notifiable.Module {
	t.Helper()
	source := registry.SourceFunc(func(ctx context.Context, kind string, values []string) (any, error) {
		if kind != "user" || len(values) != 1 {
			return nil, fmt.Errorf("unexpected lookup %s %v", kind, values)
		}
		user, ok := users[values[0]]
		if !ok {
			return nil, store.ErrNotFound
		}
		return user, nil
	})
	module, err := notifiable.NewModule(notifiable.ModuleOptions{
		Descriptors: []registry.Descriptor{userDescriptor()},
		Source:      source,
	})
	if err != nil {
		t.Fatalf("module: %v", err)
	}
	return module
}

func TestCatalogCommands(t *testing.T) {
	ctx := context.Background()
	alice := &testUser{ID: "u1", Name: "Alice"}
	bob := &testUser{ID: "u2", Name: "Bob"}
	module := newTestModule(t, map[string]*testUser{"u1": alice, "u2": bob})
	manager := module.Manager()

	cat, err := NewCatalog(Dependencies{
		Manager:  manager,
		Registry: module.Registry(),
		Source:   registry.SourceFunc(func(ctx context.Context, kind string, values []string) (any, error) {
			if values[0] == "u1" {
				return alice, nil
			}
			return bob, nil
		}),
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	err = cat.CreateNotification.Execute(ctx, CreateNotification{
		Subject:    "Deploy finished",
		Message:    "Build 42 is live",
		Recipients: []RecipientRef{{Kind: "user", Values: []string{"u1"}}, {Kind: "user", Values: []string{"u2"}}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := manager.ListNotifications(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(listed.Items))
	}
	record := listed.Items[0]

	unseen, err := manager.CountUnseen(ctx, alice)
	if err != nil {
		t.Fatalf("count unseen: %v", err)
	}
	if unseen != 1 {
		t.Fatalf("expected 1 unseen for alice, got %d", unseen)
	}

	err = cat.SetSeen.Execute(ctx, SetSeen{
		NotificationID: record.ID,
		Recipient:      RecipientRef{Kind: "user", Values: []string{"u1"}},
		Seen:           true,
	})
	if err != nil {
		t.Fatalf("set seen: %v", err)
	}
	seen, err := manager.IsSeen(ctx, alice, record.ID)
	if err != nil {
		t.Fatalf("is seen: %v", err)
	}
	if !seen {
		t.Fatal("expected alice's link to be seen")
	}

	err = cat.MarkAllSeen.Execute(ctx, MarkAllSeen{Recipient: RecipientRef{Kind: "user", Values: []string{"u2"}}})
	if err != nil {
		t.Fatalf("mark all seen: %v", err)
	}
	count, err := manager.CountUnseen(ctx, bob)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unseen for bob, got %d", count)
	}

	err = cat.UnassignRecipients.Execute(ctx, UnassignRecipients{
		NotificationID: record.ID,
		Recipients:     []RecipientRef{{Kind: "user", Values: []string{"u2"}}},
	})
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	total, err := manager.CountAll(ctx, bob)
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected bob unassigned, got %d links", total)
	}

	if err := cat.DeleteNotification.Execute(ctx, DeleteNotification{ID: record.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := manager.GetNotification(ctx, record.ID); err == nil {
		t.Fatal("expected deleted notification to be gone")
	}
}

func TestCatalogRejectsUnknownKind(t *testing.T) {
	ctx := context.Background()
	module := newTestModule(t, map[string]*testUser{})
	cat, err := NewCatalog(Dependencies{
		Manager:  module.Manager(),
		Registry: module.Registry(),
		Source:   registry.SourceFunc(func(ctx context.Context, kind string, values []string) (any, error) {
			return nil, store.ErrNotFound
		}),
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	err = cat.MarkAllSeen.Execute(ctx, MarkAllSeen{Recipient: RecipientRef{Kind: "team", Values: []string{"x"}}})
	if err == nil {
		t.Fatal("expected unregistered kind error")
	}
}

func TestCatalogRequiresSubject(t *testing.T) {
	module := newTestModule(t, map[string]*testUser{})
	cat, err := NewCatalog(Dependencies{
		Manager:  module.Manager(),
		Registry: module.Registry(),
		Source:   registry.SourceFunc(func(ctx context.Context, kind string, values []string) (any, error) {
			return nil, store.ErrNotFound
		}),
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if err := cat.CreateNotification.Execute(context.Background(), CreateNotification{Subject: "  "}); err == nil {
		t.Fatal("expected subject validation error")
	}
}
