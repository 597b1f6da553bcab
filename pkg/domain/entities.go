package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// NotifiableEntry is the stored, identity-resolved representation of a
// notifiable. (Kind, Identifier) is the stable join key notifications attach
// to; rows are created lazily on first reference and never updated afterwards.
type NotifiableEntry struct {
	bun.BaseModel `bun:"table:notifiable_entries"`
	RecordMeta

	Identifier string `bun:",notnull,unique:notifiable_identity" json:"identifier"`
	Kind       string `bun:",notnull,unique:notifiable_identity" json:"kind"`
}

// Notification is a recipient-independent notification record. Per-recipient
// state lives on NotificationAssignment rows.
type Notification struct {
	bun.BaseModel `bun:"table:notifications"`
	RecordMeta

	Subject  string    `bun:",notnull" json:"subject"`
	Message  string    `bun:",nullzero" json:"message,omitempty"`
	Link     string    `bun:",nullzero" json:"link,omitempty"`
	Date     time.Time `bun:",nullzero,notnull" json:"date"`
	Metadata JSONMap   `bun:"type:jsonb,nullzero" json:"metadata,omitempty"`
}

// NotificationAssignment links one notification to one notifiable entry and
// carries the per-recipient seen flag. The composite unique index closes the
// race between concurrent writers assigning the same pair. Unassignment is a
// real delete, so the row deliberately has no soft-delete column.
type NotificationAssignment struct {
	bun.BaseModel `bun:"table:notification_assignments"`

	ID             uuid.UUID `bun:",pk,type:uuid" json:"id"`
	EntryID        uuid.UUID `bun:",type:uuid,notnull,unique:assignment_pair" json:"entry_id"`
	NotificationID uuid.UUID `bun:",type:uuid,notnull,unique:assignment_pair" json:"notification_id"`
	Seen           bool      `bun:",notnull" json:"seen"`
	CreatedAt      time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`

	// Query-time joins only; assignments are addressed through foreign keys,
	// never through live object graphs.
	Entry        *NotifiableEntry `bun:"rel:belongs-to,join:entry_id=id" json:"entry,omitempty"`
	Notification *Notification    `bun:"rel:belongs-to,join:notification_id=id" json:"notification,omitempty"`
}

// EnsureID assigns a UUID when the assignment is about to be persisted.
func (a *NotificationAssignment) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}
