package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req validation.NavigateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	route, err := s.nav.Navigate(req.Start, req.Destination)
	if err != nil {
		s.respondFailure(w, r, "navigate", err)
		return
	}
	s.respondJSON(w, http.StatusOK, route)
}

func (s *Server) handleNavigateFaculty(w http.ResponseWriter, r *http.Request) {
	var req validation.FacultyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	var day *time.Weekday
	if req.Day != "" {
		d, err := navigation.ParseWeekday(req.Day)
		if err != nil {
			s.respondFailure(w, r, "navigate to faculty", err)
			return
		}
		day = &d
	}

	fr, err := s.nav.NavigateToFaculty(req.Start, req.Faculty, day)
	if err != nil {
		s.respondFailure(w, r, "navigate to faculty", err)
		return
	}
	s.respondJSON(w, http.StatusOK, fr)
}

func (s *Server) handleFacultyLocations(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := validation.ValidateQuery("name", name); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	locs, err := s.nav.FacultyLocations(name)
	if err != nil {
		s.respondFailure(w, r, "faculty locations", err)
		return
	}
	s.respondJSON(w, http.StatusOK, locs)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := s.queryParam(w, r, "q")
	if !ok {
		return
	}
	results := s.nav.Search(q)
	s.logger.Debug("search", logging.Query(q), logging.Count(results.Total()))
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q, ok := s.queryParam(w, r, "q")
	if !ok {
		return
	}
	candidates := s.nav.LocationCandidates(q)
	if len(candidates) == 0 {
		s.respondError(w, r, http.StatusNotFound, fmt.Sprintf("No location matches %q", q))
		return
	}
	s.respondJSON(w, http.StatusOK, LocationsResponse{
		Query:      q,
		Candidates: candidates,
		Count:      len(candidates),
	})
}

func (s *Server) handleQuickAccessList(w http.ResponseWriter, r *http.Request) {
	names := s.nav.QuickAccessNames()
	entries := make([]QuickAccessEntry, 0, len(names))
	for _, name := range names {
		node, err := s.nav.QuickAccess(name)
		if err != nil {
			// The loader guarantees every shortcut resolves.
			s.logger.Warn("quick access entry does not resolve", logging.String("name", name), logging.Error(err))
			continue
		}
		entries = append(entries, QuickAccessEntry{Name: name, Location: node})
	}
	s.respondJSON(w, http.StatusOK, QuickAccessResponse{Entries: entries, Count: len(entries)})
}

// handleQuickAccess resolves one shortcut. With ?from= it also routes there.
func (s *Server) handleQuickAccess(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(r.PathValue("name"))

	node, err := s.nav.QuickAccess(name)
	if err != nil {
		s.respondFailure(w, r, "quick access", err)
		return
	}
	entry := QuickAccessEntry{Name: name, Location: node}

	if from := r.URL.Query().Get("from"); from != "" {
		if err := validation.ValidateQuery("from", from); err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		start, err := s.nav.FindLocation(from)
		if err != nil {
			s.respondFailure(w, r, "quick access", fmt.Errorf("%w: %q", navigation.ErrStartNotFound, from))
			return
		}
		route, err := s.nav.Route(start.ID, node.ID)
		if err != nil {
			s.respondFailure(w, r, "quick access", err)
			return
		}
		entry.Route = route
	}

	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"facility": s.nav.Stats(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
		"auth":     s.AuthEnabled(),
	})
}
