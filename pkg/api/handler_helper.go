package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

// decodeBody reads one JSON object into v and runs its validate tags.
// Unknown fields are rejected. On failure the error response is already
// written: 413 for an oversized body, 400 for anything else.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	status, err := http.StatusBadRequest, dec.Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		err = validation.ValidateRequest(v)
	case errors.As(err, &tooLarge):
		status, err = http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, io.EOF):
		err = errors.New("invalid request body: body is empty")
	default:
		err = fmt.Errorf("invalid request body: %w", err)
	}

	if err != nil {
		s.respondError(w, r, status, err.Error())
		return false
	}
	return true
}

// queryParam reads and validates a required free-text query parameter.
// On failure the error response has already been written.
func (s *Server) queryParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if err := validation.ValidateQuery(name, v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return "", false
	}
	return v, true
}
