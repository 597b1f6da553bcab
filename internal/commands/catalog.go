package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-notifiable/internal/notifications"
	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/registry"
	"github.com/google/uuid"
)

// RecipientRef addresses a notifiable from serialized transports: the
// registered kind name plus identifier field values in descriptor order.
type RecipientRef struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	CreateNotification command.Commander[CreateNotification]
	AssignRecipients   command.Commander[AssignRecipients]
	UnassignRecipients command.Commander[UnassignRecipients]
	SetSeen            command.Commander[SetSeen]
	MarkAllSeen        command.Commander[MarkAllSeen]
	DeleteNotification command.Commander[DeleteNotification]
}

type managerService interface {
	CreateNotification(ctx context.Context, input notifications.CreateInput) (*domain.Notification, error)
	Assign(ctx context.Context, notificationID uuid.UUID, notifiables ...any) error
	Unassign(ctx context.Context, notificationID uuid.UUID, notifiables ...any) error
	MarkSeen(ctx context.Context, notifiable any, notificationID uuid.UUID) error
	MarkUnseen(ctx context.Context, notifiable any, notificationID uuid.UUID) error
	MarkAllSeen(ctx context.Context, notifiable any) error
	DeleteNotification(ctx context.Context, id uuid.UUID) error
}

// Dependencies wire the manager, registry, and source into the catalog.
type Dependencies struct {
	Manager  managerService
	Registry *registry.Registry
	Source   registry.Source
	Logger   logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Manager == nil {
		return nil, errors.New("commands: manager is required")
	}
	if deps.Registry == nil {
		return nil, errors.New("commands: registry is required")
	}
	if deps.Source == nil {
		return nil, errors.New("commands: source is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	resolver := refResolver{registry: deps.Registry, source: deps.Source}

	return &Catalog{
		CreateNotification: createNotificationCommand{svc: deps.Manager, resolver: resolver},
		AssignRecipients:   assignCommand{svc: deps.Manager, resolver: resolver},
		UnassignRecipients: unassignCommand{svc: deps.Manager, resolver: resolver},
		SetSeen:            setSeenCommand{svc: deps.Manager, resolver: resolver},
		MarkAllSeen:        markAllSeenCommand{svc: deps.Manager, resolver: resolver},
		DeleteNotification: deleteNotificationCommand{svc: deps.Manager},
	}, nil
}

type refResolver struct {
	registry *registry.Registry
	source   registry.Source
}

func (r refResolver) resolve(ctx context.Context, ref RecipientRef) (any, error) {
	if _, err := r.registry.Describe(ref.Kind); err != nil {
		return nil, err
	}
	return r.source.Find(ctx, ref.Kind, ref.Values)
}

func (r refResolver) resolveAll(ctx context.Context, refs []RecipientRef) ([]any, error) {
	notifiables := make([]any, 0, len(refs))
	for _, ref := range refs {
		notifiable, err := r.resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		notifiables = append(notifiables, notifiable)
	}
	return notifiables, nil
}

// CreateNotification is the payload for creating a notification, optionally
// assigning it to recipients in the same command.
type CreateNotification struct {
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	Link       string         `json:"link"`
	Date       time.Time      `json:"date"`
	Metadata   map[string]any `json:"metadata"`
	Recipients []RecipientRef `json:"recipients"`
}

type createNotificationCommand struct {
	svc      managerService
	resolver refResolver
}

func (c createNotificationCommand) Execute(ctx context.Context, msg CreateNotification) error {
	if strings.TrimSpace(msg.Subject) == "" {
		return errors.New("commands: subject is required")
	}
	record, err := c.svc.CreateNotification(ctx, notifications.CreateInput{
		Subject:  msg.Subject,
		Message:  msg.Message,
		Link:     msg.Link,
		Date:     msg.Date,
		Metadata: domain.JSONMap(msg.Metadata),
	})
	if err != nil {
		return err
	}
	if len(msg.Recipients) == 0 {
		return nil
	}
	return (assignCommand{svc: c.svc, resolver: c.resolver}).assign(ctx, record.ID, msg.Recipients)
}

// AssignRecipients links an existing notification to recipients.
type AssignRecipients struct {
	NotificationID uuid.UUID      `json:"notification_id"`
	Recipients     []RecipientRef `json:"recipients"`
}

type assignCommand struct {
	svc      managerService
	resolver refResolver
}

func (c assignCommand) Execute(ctx context.Context, msg AssignRecipients) error {
	return c.assign(ctx, msg.NotificationID, msg.Recipients)
}

func (c assignCommand) assign(ctx context.Context, id uuid.UUID, refs []RecipientRef) error {
	notifiables, err := c.resolver.resolveAll(ctx, refs)
	if err != nil {
		return err
	}
	return c.svc.Assign(ctx, id, notifiables...)
}

// UnassignRecipients removes recipients from a notification.
type UnassignRecipients struct {
	NotificationID uuid.UUID      `json:"notification_id"`
	Recipients     []RecipientRef `json:"recipients"`
}

type unassignCommand struct {
	svc      managerService
	resolver refResolver
}

func (c unassignCommand) Execute(ctx context.Context, msg UnassignRecipients) error {
	notifiables, err := c.resolver.resolveAll(ctx, msg.Recipients)
	if err != nil {
		return err
	}
	return c.svc.Unassign(ctx, msg.NotificationID, notifiables...)
}

// SetSeen toggles the seen flag for one recipient/notification pair.
type SetSeen struct {
	NotificationID uuid.UUID    `json:"notification_id"`
	Recipient      RecipientRef `json:"recipient"`
	Seen           bool         `json:"seen"`
}

type setSeenCommand struct {
	svc      managerService
	resolver refResolver
}

func (c setSeenCommand) Execute(ctx context.Context, msg SetSeen) error {
	notifiable, err := c.resolver.resolve(ctx, msg.Recipient)
	if err != nil {
		return err
	}
	if msg.Seen {
		return c.svc.MarkSeen(ctx, notifiable, msg.NotificationID)
	}
	return c.svc.MarkUnseen(ctx, notifiable, msg.NotificationID)
}

// MarkAllSeen flags every assignment of one recipient as seen.
type MarkAllSeen struct {
	Recipient RecipientRef `json:"recipient"`
}

type markAllSeenCommand struct {
	svc      managerService
	resolver refResolver
}

func (c markAllSeenCommand) Execute(ctx context.Context, msg MarkAllSeen) error {
	notifiable, err := c.resolver.resolve(ctx, msg.Recipient)
	if err != nil {
		return err
	}
	return c.svc.MarkAllSeen(ctx, notifiable)
}

// DeleteNotification removes a notification and its assignments.
type DeleteNotification struct {
	ID uuid.UUID `json:"id"`
}

type deleteNotificationCommand struct {
	svc managerService
}

func (c deleteNotificationCommand) Execute(ctx context.Context, msg DeleteNotification) error {
	return c.svc.DeleteNotification(ctx, msg.ID)
}
