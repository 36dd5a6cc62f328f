package api

import (
	"net/http"

	"github.com/dd0wney/cluso-wayfinder/pkg/audit"
	"github.com/dd0wney/cluso-wayfinder/pkg/auth"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

// handleToken exchanges the operator's credentials for a bearer token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if !s.AuthEnabled() {
		s.respondError(w, r, http.StatusNotImplemented, "Authentication is not configured")
		return
	}

	var req validation.TokenRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	r = withClient(r)
	if err := s.operator.Verify(req.Username, req.Password); err != nil {
		s.metricsRegistry.RecordAuthFailure()
		s.recordAudit(r.Context(), audit.NewFailedEvent(req.Username, audit.ActionLogin, "", err))
		s.logger.Warn("operator login failed", logging.String("username", req.Username))
		s.respondError(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, claims, err := s.jwtManager.GenerateToken(req.Username, auth.RoleOperator)
	if err != nil {
		s.respondFailure(w, r, "issue token", err)
		return
	}
	s.metricsRegistry.RecordTokenIssued()
	s.recordAudit(r.Context(), audit.NewEvent(claims.Username, audit.ActionLogin, "", ""))
	s.logger.Info("operator token issued",
		logging.String("username", claims.Username),
		logging.String("token_id", claims.TokenID))

	s.respondJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt,
		Role:      claims.Role,
	})
}
