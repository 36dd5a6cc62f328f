package replication

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic prefixes every published restriction event; subscribers filter on it.
const Topic = "RESTRICT:"

var (
	ErrBadTopic   = errors.New("message does not carry the restriction topic")
	ErrEmptyEvent = errors.New("event has no node id")
)

// ChangeEvent announces that a node was restricted or cleared on one instance.
type ChangeEvent struct {
	ID         string    `json:"id"`
	NodeID     string    `json:"node_id"`
	Restricted bool      `json:"restricted"`
	Origin     string    `json:"origin"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

// NewChangeEvent stamps an event with a fresh id and the current time.
func NewChangeEvent(origin, nodeID string, restricted bool, actor string) ChangeEvent {
	return ChangeEvent{
		ID:         uuid.NewString(),
		NodeID:     nodeID,
		Restricted: restricted,
		Origin:     origin,
		Actor:      actor,
		At:         time.Now().UTC(),
	}
}

// Encode frames ev as topic + JSON.
func (ev ChangeEvent) Encode() ([]byte, error) {
	if ev.NodeID == "" {
		return nil, ErrEmptyEvent
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return append([]byte(Topic), data...), nil
}

// DecodeEvent parses a framed message produced by Encode.
func DecodeEvent(msg []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	data, ok := bytes.CutPrefix(msg, []byte(Topic))
	if !ok {
		return ev, ErrBadTopic
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("decode restriction event: %w", err)
	}
	if ev.NodeID == "" {
		return ev, ErrEmptyEvent
	}
	return ev, nil
}
