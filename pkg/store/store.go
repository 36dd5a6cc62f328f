// Package store persists the restriction overlay so it survives restarts.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyNodeID is returned when a restriction names no node.
var ErrEmptyNodeID = errors.New("node id cannot be empty")

// Restriction records who restricted a node and when.
type Restriction struct {
	NodeID       string    `json:"node_id"`
	RestrictedBy string    `json:"restricted_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RestrictionStore is the persistence boundary for the overlay.
type RestrictionStore interface {
	// Load returns every restricted node ordered by node id.
	Load(ctx context.Context) ([]Restriction, error)
	// Set adds r when restricted is true and removes r.NodeID otherwise.
	Set(ctx context.Context, r Restriction, restricted bool) error
	Ping(ctx context.Context) error
	Close() error
}

// Recorder observes store operations. *metrics.Registry satisfies it.
type Recorder interface {
	RecordStoreOperation(operation, status string, duration time.Duration)
}

// Instrumented wraps a store and reports each call to a Recorder.
type Instrumented struct {
	next     RestrictionStore
	recorder Recorder
}

// NewInstrumented returns a store that times every call to next.
func NewInstrumented(next RestrictionStore, recorder Recorder) *Instrumented {
	return &Instrumented{next: next, recorder: recorder}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.recorder.RecordStoreOperation(op, status, time.Since(start))
}

// Load implements RestrictionStore.
func (s *Instrumented) Load(ctx context.Context) ([]Restriction, error) {
	start := time.Now()
	out, err := s.next.Load(ctx)
	s.observe("load", start, err)
	return out, err
}

// Set implements RestrictionStore.
func (s *Instrumented) Set(ctx context.Context, r Restriction, restricted bool) error {
	start := time.Now()
	err := s.next.Set(ctx, r, restricted)
	s.observe("set", start, err)
	return err
}

// Ping implements RestrictionStore.
func (s *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

// Close implements RestrictionStore.
func (s *Instrumented) Close() error {
	return s.next.Close()
}

// NodeIDs extracts the node ids of rs, preserving order.
func NodeIDs(rs []Restriction) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.NodeID
	}
	return ids
}
