package navigation

import (
	"sort"
	"sync"
)

// Restrictions is the mutable set of node ids excluded from transit.
// It never removes edges; searches consult a snapshot of it.
type Restrictions struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewRestrictions creates an empty overlay.
func NewRestrictions() *Restrictions {
	return &Restrictions{ids: make(map[string]struct{})}
}

// Set adds or removes id and reports whether membership changed.
func (r *Restrictions) Set(id string, restricted bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, present := r.ids[id]
	if present == restricted {
		return false
	}
	if restricted {
		r.ids[id] = struct{}{}
	} else {
		delete(r.ids, id)
	}
	return true
}

// Contains reports whether id is currently restricted.
func (r *Restrictions) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[id]
	return ok
}

// Len returns the number of restricted ids.
func (r *Restrictions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// List returns the restricted ids in sorted order.
func (r *Restrictions) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a private copy safe to read without locking.
func (r *Restrictions) Snapshot() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{}, len(r.ids))
	for id := range r.ids {
		out[id] = struct{}{}
	}
	return out
}
