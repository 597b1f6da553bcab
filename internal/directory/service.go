package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/goliatone/go-notifiable/pkg/registry"
	"github.com/google/uuid"
)

// Dependencies wires the registry and entry repository into the service.
type Dependencies struct {
	Registry *registry.Registry
	Entries  store.NotifiableEntryRepository
	Source   registry.Source
	Logger   logger.Logger
}

// Service maintains the persistent directory of identity-resolved
// notifiables. Entries are created lazily on first reference and act as the
// stable join key for assignments.
type Service struct {
	registry *registry.Registry
	entries  store.NotifiableEntryRepository
	source   registry.Source
	logger   logger.Logger
}

var (
	errRegistryRequired = errors.New("directory: registry is required")
	errEntriesRequired  = errors.New("directory: entry repository is required")
)

// ErrNoSource is returned by Resolve when no domain-object source was wired.
var ErrNoSource = errors.New("directory: no notifiable source configured")

// NewService constructs the directory service.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Registry == nil {
		return nil, errRegistryRequired
	}
	if deps.Entries == nil {
		return nil, errEntriesRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		registry: deps.Registry,
		entries:  deps.Entries,
		source:   deps.Source,
		logger:   deps.Logger,
	}, nil
}

// GetOrCreate resolves the notifiable's identity and returns its directory
// entry, creating it when absent. The entry is persisted before returning so
// its ID is usable in the same call. A concurrent writer winning the race
// surfaces as store.ErrConflict from the repository; the entry is re-fetched.
func (s *Service) GetOrCreate(ctx context.Context, notifiable any) (*domain.NotifiableEntry, error) {
	kind, ok := s.registry.NameOf(notifiable)
	if !ok {
		return nil, fmt.Errorf("%w: %T", registry.ErrNotRegistered, notifiable)
	}
	identifier, err := s.registry.ResolveKey(notifiable)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.GetByIdentity(ctx, kind, identifier)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	entry = &domain.NotifiableEntry{Kind: kind, Identifier: identifier}
	if err := s.entries.Create(ctx, entry); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.Debug("directory entry lost create race, re-fetching",
				logger.Field{Key: "kind", Value: kind},
				logger.Field{Key: "identifier", Value: identifier})
			return s.entries.GetByIdentity(ctx, kind, identifier)
		}
		return nil, err
	}
	return entry, nil
}

// GetByID fetches a directory entry by its storage key.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotifiableEntry, error) {
	return s.entries.GetByID(ctx, id)
}

// Resolve reconstructs the live notifiable behind a directory entry through
// the configured source. The stored identifier is split back into field
// values in descriptor order.
func (s *Service) Resolve(ctx context.Context, entry *domain.NotifiableEntry) (any, error) {
	if entry == nil {
		return nil, store.ErrNotFound
	}
	if s.source == nil {
		return nil, ErrNoSource
	}
	if _, err := s.registry.Describe(entry.Kind); err != nil {
		return nil, err
	}
	return s.source.Find(ctx, entry.Kind, s.registry.SplitKey(entry.Identifier))
}
