package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-wayfinder/pkg/api/middleware"
	"github.com/dd0wney/cluso-wayfinder/pkg/auth"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

var (
	// ErrUnauthorized means the request carried no usable credentials.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means the credentials lack the operator role.
	ErrForbidden = errors.New("operator role required")
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      status,
		RequestID: middleware.GetRequestID(r),
	}
	s.respondJSON(w, status, response)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidRequest),
		errors.Is(err, navigation.ErrInvalidWeekday):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidClaims):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, navigation.ErrLocationNotFound),
		errors.Is(err, navigation.ErrFacultyNotFound),
		errors.Is(err, navigation.ErrUnknownQuickAccess),
		errors.Is(err, navigation.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, navigation.ErrNoPath),
		errors.Is(err, navigation.ErrNoFacultyLocation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes err with the status statusFor picks. Internal errors are
// logged and replaced by a generic message naming the operation.
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Operation(operation), logging.Error(err))
		s.respondError(w, r, status, operation+" failed")
		return
	}
	s.respondError(w, r, status, err.Error())
}
