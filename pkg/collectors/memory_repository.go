package collectors

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yair/eventify/pkg/domain"
)

// MemoryEventRepository keeps events in process memory. Conditions are
// evaluated with Matches instead of being compiled to SQL.
type MemoryEventRepository struct {
	mu       sync.RWMutex
	events   []domain.Event
	seedKeys map[string]struct{}
	nextID   int64
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{
		seedKeys: make(map[string]struct{}),
		nextID:   1,
	}
}

func (r *MemoryEventRepository) Create(_ context.Context, event *domain.NewEvent) (*domain.Event, error) {
	if event == nil {
		return nil, errNilEvent
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seedKeys[event.SeedKey]; ok && event.SeedKey != "" {
		return nil, domain.ErrDuplicateEvent
	}

	stored := cloneEvent(r.insert(*event, time.Now().UTC()))
	return &stored, nil
}

func (r *MemoryEventRepository) CreateBatch(_ context.Context, events []domain.NewEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	inserted := 0
	for _, e := range events {
		if _, ok := r.seedKeys[e.SeedKey]; ok && e.SeedKey != "" {
			continue
		}
		r.insert(e, now)
		inserted++
	}

	return inserted, nil
}

// insert must be called with mu held.
func (r *MemoryEventRepository) insert(e domain.NewEvent, createdAt time.Time) domain.Event {
	stored := cloneEvent(domain.Event{ID: r.nextID, NewEvent: e, CreatedAt: createdAt})
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	r.nextID++

	if e.SeedKey != "" {
		r.seedKeys[e.SeedKey] = struct{}{}
	}
	r.events = append(r.events, stored)
	return stored
}

func (r *MemoryEventRepository) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.events {
		if r.events[i].ID == id {
			event := cloneEvent(r.events[i])
			return &event, nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (r *MemoryEventRepository) List(_ context.Context, cond domain.Condition) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := []domain.Event{}
	for i := range r.events {
		if cond == nil || cond.Matches(&r.events[i]) {
			events = append(events, cloneEvent(r.events[i]))
		}
	}
	return events, nil
}

// cloneEvent copies the slice fields so callers never share backing arrays
// with the store.
func cloneEvent(e domain.Event) domain.Event {
	e.Tags = slices.Clone(e.Tags)
	e.Includes = slices.Clone(e.Includes)
	e.MetroNearby = slices.Clone(e.MetroNearby)
	e.Images = slices.Clone(e.Images)
	e.Reviews = slices.Clone(e.Reviews)
	return e
}

func (r *MemoryEventRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events), nil
}
