package api

import (
	"net/http"

	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

// handleAsk answers a natural-language question. The assistant always produces a
// response; failures are reported in its message with type "error".
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req validation.AskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.respondJSON(w, http.StatusOK, s.assistant.Ask(req.Query, req.Start))
}
