package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dd0wney/cluso-wayfinder/pkg/auth"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// Context key for storing claims
type contextKey string

const claimsContextKey contextKey = "claims"

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate validates a bearer token if one is present. It returns nil claims
// and no error when the request carries no Authorization header.
func (s *Server) authenticate(r *http.Request) (*auth.Claims, error) {
	if r.Header.Get("Authorization") == "" {
		return nil, nil
	}
	token, ok := bearerToken(r)
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	claims, err := s.tokenValidator.ValidateToken(r.Context(), token)
	if err != nil {
		s.metricsRegistry.RecordAuthFailure()
		s.logger.Warn("token validation failed",
			logging.String("validator", s.tokenValidator.Name()),
			logging.Error(err))
		return nil, err
	}
	return claims, nil
}

// optionalAuth stores validated claims in the context when a token is present.
// A malformed or expired token is rejected even on routes that work without one.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = withClient(r)
		if !s.AuthEnabled() {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.authenticate(r)
		if err != nil {
			s.respondError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// requireOperator protects restriction changes. With auth disabled every caller
// passes.
func (s *Server) requireOperator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = withClient(r)
		if !s.AuthEnabled() {
			next(w, r)
			return
		}

		claims, err := s.authenticate(r)
		if err != nil {
			s.respondError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims == nil {
			s.metricsRegistry.RecordAuthFailure()
			s.respondError(w, r, http.StatusUnauthorized, "Missing authentication (Bearer token required)")
			return
		}
		if !claims.CanModifyRestrictions() {
			s.logger.Warn("restriction change denied",
				logging.String("username", claims.Username),
				logging.String("role", claims.Role))
			s.respondError(w, r, http.StatusForbidden, "Operator access required")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// actorFrom names who made a change: the token subject, or empty when auth is off.
func actorFrom(r *http.Request) string {
	if claims, ok := claimsFromContext(r.Context()); ok {
		return claims.Username
	}
	return ""
}
