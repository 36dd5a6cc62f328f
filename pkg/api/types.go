package api

import (
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/audit"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
)

// API Request/Response Types. Request bodies are the validation package structs.

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// LocationsResponse lists ranked resolution candidates for a query
type LocationsResponse struct {
	Query      string                     `json:"query"`
	Candidates []navigation.LocationMatch `json:"candidates"`
	Count      int                        `json:"count"`
}

// QuickAccessEntry is one named shortcut and where it leads
type QuickAccessEntry struct {
	Name     string           `json:"name"`
	Location *navigation.Node `json:"location"`
	// Route is filled when the request names a starting point.
	Route *navigation.PathResult `json:"route,omitempty"`
}

// QuickAccessResponse lists every shortcut
type QuickAccessResponse struct {
	Entries []QuickAccessEntry `json:"entries"`
	Count   int                `json:"count"`
}

// RestrictionsResponse lists the restricted locations
type RestrictionsResponse struct {
	Restricted []*navigation.Node `json:"restricted"`
	Count      int                `json:"count"`
}

// AuditResponse lists audit events, newest first
type AuditResponse struct {
	Events []*audit.Event `json:"events"`
	Count  int            `json:"count"`
}

// TokenResponse carries a signed bearer token
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}

// StreamMessage is one frame on the restriction stream
type StreamMessage struct {
	Type       string        `json:"type"`
	Restricted []string      `json:"restricted,omitempty"`
	Change     *StreamChange `json:"change,omitempty"`
	At         time.Time     `json:"at"`
}

// StreamChange describes an applied restriction change
type StreamChange struct {
	NodeID     string `json:"node_id"`
	Name       string `json:"name"`
	Restricted bool   `json:"restricted"`
	Actor      string `json:"actor,omitempty"`
	Source     string `json:"source"`
}
