// Package audit records who changed the restriction overlay and who tried to
// obtain an operator token.
package audit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action types for audit events
type Action string

const (
	ActionRestrict Action = "restrict"
	ActionOpen     Action = "open"
	ActionLogin    Action = "login"
)

// ActionFor maps a requested restriction state to its action.
func ActionFor(restricted bool) Action {
	if restricted {
		return ActionRestrict
	}
	return ActionOpen
}

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event represents a single audit log entry
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
	Action    Action    `json:"action"`
	// Location is the text the caller asked for; NodeID is what it resolved to.
	Location     string         `json:"location,omitempty"`
	NodeID       string         `json:"node_id,omitempty"`
	Status       Status         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Via          string         `json:"via,omitempty"` // rest, graphql
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Filter represents filtering criteria for audit events
type Filter struct {
	Actor     string
	Action    Action
	NodeID    string
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
}

// Matches reports whether e passes every criterion set in f. A nil filter matches all.
func (f *Filter) Matches(e *Event) bool {
	if f == nil {
		return true
	}
	if f.Actor != "" && e.Actor != f.Actor {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.NodeID != "" && e.NodeID != f.NodeID {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.StartTime != nil && e.Timestamp.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && e.Timestamp.After(*f.EndTime) {
		return false
	}
	return true
}

// Logger is the interface for audit logging implementations.
// Both the in-memory AuditLogger and FileLogger implement it.
type Logger interface {
	// Log records an audit event
	Log(event *Event) error

	// GetEventCount returns the number of events logged
	GetEventCount() int64
}

// AuditLogger keeps the most recent events in a circular buffer
type AuditLogger struct {
	events     []*Event
	bufferSize int
	index      int
	count      int
	mu         sync.RWMutex
}

// DefaultBufferSize is used when NewAuditLogger is given a non-positive size.
const DefaultBufferSize = 1000

// NewAuditLogger creates a new audit logger with specified buffer size
func NewAuditLogger(bufferSize int) *AuditLogger {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &AuditLogger{
		events:     make([]*Event, bufferSize),
		bufferSize: bufferSize,
	}
}

// stamp fills the id and timestamp when the caller left them empty.
func stamp(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
}

// Log records an audit event
func (l *AuditLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamp(event)

	l.events[l.index] = event
	l.index = (l.index + 1) % l.bufferSize
	if l.count < l.bufferSize {
		l.count++
	}
	return nil
}

// GetEvents returns stored events oldest first, keeping those that match filter.
func (l *AuditLogger) GetEvents(filter *Filter) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Event, 0, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.index - l.count + i + l.bufferSize) % l.bufferSize
		event := l.events[idx]
		if event == nil || !filter.Matches(event) {
			continue
		}
		result = append(result, event)
	}
	return result
}

// GetRecentEvents returns up to n matching events, newest first.
func (l *AuditLogger) GetRecentEvents(n int, filter *Filter) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Event, 0, min(n, l.count))
	for i := 0; i < l.count && len(result) < n; i++ {
		idx := (l.index - 1 - i + l.bufferSize) % l.bufferSize
		event := l.events[idx]
		if event == nil || !filter.Matches(event) {
			continue
		}
		result = append(result, event)
	}
	return result
}

// GetEventCount returns the total number of events currently stored
func (l *AuditLogger) GetEventCount() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(l.count)
}

// Clear removes all events from the logger
func (l *AuditLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = make([]*Event, l.bufferSize)
	l.index = 0
	l.count = 0
}

// NewEvent creates a successful event
func NewEvent(actor string, action Action, location, nodeID string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		Location:  location,
		NodeID:    nodeID,
		Status:    StatusSuccess,
	}
}

// NewFailedEvent creates a failed event with an error message
func NewFailedEvent(actor string, action Action, location string, err error) *Event {
	e := NewEvent(actor, action, location, "")
	e.Status = StatusFailure
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	return e
}

// String returns a human-readable representation of an event
func (e *Event) String() string {
	actor := e.Actor
	if actor == "" {
		actor = "anonymous"
	}
	target := e.NodeID
	if target == "" {
		target = e.Location
	}
	return fmt.Sprintf("[%s] %s %s %s (status: %s)",
		e.Timestamp.Format(time.RFC3339),
		actor,
		e.Action,
		target,
		e.Status,
	)
}

// Multi fans every event out to each logger. All loggers are tried; their
// errors are joined.
type Multi []Logger

// Log records event in every logger.
func (m Multi) Log(event *Event) error {
	stamp(event)
	var errs []error
	for _, l := range m {
		if err := l.Log(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetEventCount reports the first logger's count.
func (m Multi) GetEventCount() int64 {
	if len(m) == 0 {
		return 0
	}
	return m[0].GetEventCount()
}
