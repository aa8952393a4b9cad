package audit

import (
	"context"
	"sort"
	"sync"
)

const defaultMemoryCapacity = 1000

// MemoryStore keeps the most recent events in process. Older events are
// dropped once capacity is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	events   []*Event
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Insert(_ context.Context, event *Event) error {
	cp := *event
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, &cp)
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = append([]*Event(nil), s.events[over:]...)
	}
	return nil
}

func (s *MemoryStore) Query(_ context.Context, filter QueryFilter) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*Event{}
	for i := len(s.events) - 1; i >= 0; i-- {
		if filter.matches(s.events[i]) {
			matched = append(matched, s.events[i])
		}
	}
	// Background writes may land out of order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	out := []*Event{}
	if filter.Offset >= len(matched) {
		return out, nil
	}
	matched = matched[filter.Offset:]
	if limit := filter.limit(); len(matched) > limit {
		matched = matched[:limit]
	}
	for _, e := range matched {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (f QueryFilter) matches(e *Event) bool {
	switch {
	case f.ActorID != nil && (e.ActorID == nil || *e.ActorID != *f.ActorID):
		return false
	case f.Resource != "" && e.Resource != f.Resource:
		return false
	case f.EntityID != "" && e.EntityID != f.EntityID:
		return false
	case f.Action != "" && e.Action != f.Action:
		return false
	case f.Status != "" && e.Status != f.Status:
		return false
	case f.StartTime != nil && e.CreatedAt.Before(*f.StartTime):
		return false
	case f.EndTime != nil && e.CreatedAt.After(*f.EndTime):
		return false
	}
	return true
}
