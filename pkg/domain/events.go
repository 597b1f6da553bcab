package domain

// Lifecycle topics published on every mutating manager operation.
const (
	TopicCreated  = "notification.created"
	TopicAssigned = "notification.assigned"
	TopicRemoved  = "notification.removed"
	TopicSeen     = "notification.seen"
	TopicUnseen   = "notification.unseen"
	TopicModified = "notification.modified"
	TopicDeleted  = "notification.deleted"
)

// Envelope is the payload carried by every lifecycle event. Entry is nil for
// operations that are not scoped to a single recipient (created, modified,
// deleted).
type Envelope struct {
	Notification *Notification    `json:"notification"`
	Entry        *NotifiableEntry `json:"entry,omitempty"`
}
