package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-notifiable/pkg/domain"
	"github.com/goliatone/go-notifiable/pkg/interfaces/store"
	"github.com/google/uuid"
)

// AssignmentRepository is the in-memory ledger store.
type AssignmentRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.NotificationAssignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{
		records: make(map[uuid.UUID]domain.NotificationAssignment),
	}
}

var _ store.AssignmentRepository = (*AssignmentRepository)(nil)

// Create enforces the (entry, notification) pair uniqueness the relational
// schema guarantees, reporting ErrConflict for duplicate links.
func (r *AssignmentRepository) Create(ctx context.Context, link *domain.NotificationAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.EntryID == link.EntryID && existing.NotificationID == link.NotificationID {
			return store.ErrConflict
		}
	}
	link.EnsureID()
	now := timeNow()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now
	stored := *link
	stored.Entry = nil
	stored.Notification = nil
	r.records[link.ID] = stored
	return nil
}

func (r *AssignmentRepository) GetByPair(ctx context.Context, entryID, notificationID uuid.UUID) (*domain.NotificationAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []domain.NotificationAssignment
	for _, link := range r.records {
		if link.EntryID == entryID && link.NotificationID == notificationID {
			matches = append(matches, link)
		}
	}
	switch len(matches) {
	case 0:
		return nil, store.ErrNotFound
	case 1:
		found := matches[0]
		return &found, nil
	default:
		return nil, store.ErrAmbiguous
	}
}

func (r *AssignmentRepository) SetSeen(ctx context.Context, id uuid.UUID, seen bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.records[id]
	if !ok {
		return store.ErrNotFound
	}
	link.Seen = seen
	link.UpdatedAt = timeNow()
	r.records[id] = link
	return nil
}

func (r *AssignmentRepository) DeleteByPair(ctx context.Context, entryID, notificationID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, link := range r.records {
		if link.EntryID == entryID && link.NotificationID == notificationID {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *AssignmentRepository) DeleteByNotification(ctx context.Context, notificationID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, link := range r.records {
		if link.NotificationID == notificationID {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *AssignmentRepository) ListByEntry(ctx context.Context, entryID uuid.UUID, filter store.SeenFilter) ([]domain.NotificationAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []domain.NotificationAssignment
	for _, link := range r.records {
		if link.EntryID == entryID && matchesSeen(link, filter) {
			links = append(links, link)
		}
	}
	sortByCreation(links)
	return links, nil
}

func (r *AssignmentRepository) ListByNotification(ctx context.Context, notificationID uuid.UUID, filter store.SeenFilter) ([]domain.NotificationAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []domain.NotificationAssignment
	for _, link := range r.records {
		if link.NotificationID == notificationID && matchesSeen(link, filter) {
			links = append(links, link)
		}
	}
	sortByCreation(links)
	return links, nil
}

func (r *AssignmentRepository) CountByEntry(ctx context.Context, entryID uuid.UUID, filter store.SeenFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, link := range r.records {
		if link.EntryID == entryID && matchesSeen(link, filter) {
			count++
		}
	}
	return count, nil
}

func matchesSeen(link domain.NotificationAssignment, filter store.SeenFilter) bool {
	switch filter {
	case store.SeenOnly:
		return link.Seen
	case store.UnseenOnly:
		return !link.Seen
	default:
		return true
	}
}

func sortByCreation(links []domain.NotificationAssignment) {
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})
}
