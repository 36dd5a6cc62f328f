package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps restrictions in process memory.
type MemoryStore struct {
	mu           sync.RWMutex
	restrictions map[string]Restriction
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{restrictions: make(map[string]Restriction)}
}

// Load implements RestrictionStore.
func (s *MemoryStore) Load(_ context.Context) ([]Restriction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sorted(s.restrictions), nil
}

// Set implements RestrictionStore.
func (s *MemoryStore) Set(_ context.Context, r Restriction, restricted bool) error {
	if r.NodeID == "" {
		return ErrEmptyNodeID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if restricted {
		s.restrictions[r.NodeID] = r
	} else {
		delete(s.restrictions, r.NodeID)
	}
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func sorted(m map[string]Restriction) []Restriction {
	out := make([]Restriction, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}
