package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-notifiable/internal/commands"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/notifiable"
	"github.com/goliatone/go-notifiable/pkg/registry"
)

// Re-export request types so consumers need not import internal packages.
type (
	RecipientRef       = internalcommands.RecipientRef
	CreateNotification = internalcommands.CreateNotification
	AssignRecipients   = internalcommands.AssignRecipients
	UnassignRecipients = internalcommands.UnassignRecipients
	SetSeen            = internalcommands.SetSeen
	MarkAllSeen        = internalcommands.MarkAllSeen
	DeleteNotification = internalcommands.DeleteNotification
)

// Registry exposes go-command compatible handlers backed by the manager.
type Registry struct {
	Catalog            *internalcommands.Catalog
	CreateNotification command.Commander[CreateNotification]
	AssignRecipients   command.Commander[AssignRecipients]
	UnassignRecipients command.Commander[UnassignRecipients]
	SetSeen            command.Commander[SetSeen]
	MarkAllSeen        command.Commander[MarkAllSeen]
	DeleteNotification command.Commander[DeleteNotification]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Manager  *notifiable.Manager
	Registry *registry.Registry
	Source   registry.Source
	Logger   logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Manager:  deps.Manager,
		Registry: deps.Registry,
		Source:   deps.Source,
		Logger:   deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:            catalog,
		CreateNotification: catalog.CreateNotification,
		AssignRecipients:   catalog.AssignRecipients,
		UnassignRecipients: catalog.UnassignRecipients,
		SetSeen:            catalog.SetSeen,
		MarkAllSeen:        catalog.MarkAllSeen,
		DeleteNotification: catalog.DeleteNotification,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.CreateNotification,
		r.AssignRecipients,
		r.UnassignRecipients,
		r.SetSeen,
		r.MarkAllSeen,
		r.DeleteNotification,
	}
}
