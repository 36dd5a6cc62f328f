package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-wayfinder/pkg/api/middleware"
	"github.com/dd0wney/cluso-wayfinder/pkg/audit"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

const clientContextKey contextKey = "client"

type clientInfo struct {
	ip        string
	userAgent string
}

// withClient remembers the caller's address for audit events recorded deeper in the stack.
func withClient(r *http.Request) *http.Request {
	info := clientInfo{ip: middleware.RemoteIP(r), userAgent: r.UserAgent()}
	return r.WithContext(context.WithValue(r.Context(), clientContextKey, info))
}

// auditedOverlay applies restriction changes and records each attempt.
type auditedOverlay struct {
	s   *Server
	via string
}

func (a auditedOverlay) Apply(ctx context.Context, location string, restricted bool, actor string) (*overlay.Change, error) {
	change, err := a.s.overlay.Apply(ctx, location, restricted, actor)

	var event *audit.Event
	if err != nil {
		event = audit.NewFailedEvent(actor, audit.ActionFor(restricted), location, err)
	} else {
		event = audit.NewEvent(actor, audit.ActionFor(restricted), location, change.Node.ID)
		event.Metadata = map[string]any{"changed": change.Changed}
	}
	event.Via = a.via
	a.s.recordAudit(ctx, event)

	return change, err
}

func (s *Server) recordAudit(ctx context.Context, event *audit.Event) {
	if info, ok := ctx.Value(clientContextKey).(clientInfo); ok {
		event.IPAddress = info.ip
		event.UserAgent = info.userAgent
	}
	if err := s.auditSink.Log(event); err != nil {
		s.logger.Warn("failed to record audit event",
			logging.String("action", string(event.Action)),
			logging.Error(err))
	}
}

// handleAuditLog lists recent audit events, newest first.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultAuditLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxAuditLimit))
			return
		}
		limit = n
	}

	filter := &audit.Filter{
		Actor:  q.Get("actor"),
		Action: audit.Action(q.Get("action")),
		NodeID: q.Get("node"),
		Status: audit.Status(q.Get("status")),
	}
	events := s.auditLog.GetRecentEvents(limit, filter)
	s.respondJSON(w, http.StatusOK, AuditResponse{Events: events, Count: len(events)})
}
