package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait
	pingPeriod = 54 * time.Second

	// Stream clients only send control frames
	maxStreamMessageSize = 512

	// Changes buffered per stream before they are dropped
	streamBuffer = 32
)

func (s *Server) handleListRestrictions(w http.ResponseWriter, r *http.Request) {
	nodes := s.overlay.Restricted()
	s.respondJSON(w, http.StatusOK, RestrictionsResponse{Restricted: nodes, Count: len(nodes)})
}

func (s *Server) handleUpdateRestriction(w http.ResponseWriter, r *http.Request) {
	var req validation.RestrictionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	change, err := auditedOverlay{s: s, via: "rest"}.Apply(r.Context(), req.Location, *req.Restricted, actorFrom(r))
	if err != nil {
		s.respondFailure(w, r, "update restriction", err)
		return
	}
	s.respondJSON(w, http.StatusOK, change)
}

// checkStreamOrigin accepts same-host pages, origins allowed by CORS, and
// non-browser clients that send no Origin.
func (s *Server) checkStreamOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	return s.corsConfig.AllowsOrigin(origin)
}

// handleRestrictionStream upgrades to a websocket that first sends the current
// restricted ids, then one frame per applied change.
func (s *Server) handleRestrictionStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkStreamOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("restriction stream upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	changes, stop := s.overlay.Watch(streamBuffer)
	defer stop()

	closed := make(chan struct{})
	go s.streamReadPump(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	snapshot := StreamMessage{Type: "snapshot", Restricted: s.nav.Restricted(), At: time.Now().UTC()}
	if err := writeStreamJSON(conn, snapshot); err != nil {
		return
	}

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := writeStreamJSON(conn, streamMessageFor(change)); err != nil {
				s.logger.Debug("restriction stream write failed", logging.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

// streamReadPump discards client frames and closes closed when the peer goes away.
func (s *Server) streamReadPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxStreamMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.Debug("restriction stream closed unexpectedly", logging.Error(err))
			}
			return
		}
	}
}

func writeStreamJSON(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func streamMessageFor(c overlay.Change) StreamMessage {
	msg := StreamMessage{
		Type: "change",
		At:   time.Now().UTC(),
		Change: &StreamChange{
			Restricted: c.Restricted,
			Actor:      c.Actor,
			Source:     c.Source,
		},
	}
	if c.Node != nil {
		msg.Change.NodeID = c.Node.ID
		msg.Change.Name = c.Node.DisplayName()
	}
	return msg
}
