// Package assistant answers free-form questions such as "how do I get to the
// library?" or "where is ma'am Reyes?" by routing them to the navigator and
// rendering the answer as markdown.
package assistant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
)

// DefaultStart is used when a question names only a destination.
const DefaultStart = "MIS"

// Kind tags a Response.
type Kind string

const (
	KindRoute  Kind = "route"
	KindSearch Kind = "search"
	KindError  Kind = "error"
)

// Navigator is the subset of *navigation.Navigator the assistant needs.
type Navigator interface {
	Navigate(start, destination string) (*navigation.PathResult, error)
	NavigateToFaculty(start, name string, day *time.Weekday) (*navigation.FacultyRoute, error)
	Search(query string) *navigation.SearchResults
}

// Recorder counts answered queries by intent.
type Recorder interface {
	RecordAssistantQuery(intent string)
}

// Response is a rendered answer plus the structured result it was built from.
type Response struct {
	Kind      Kind                      `json:"type"`
	Intent    Intent                    `json:"intent"`
	Message   string                    `json:"message"`
	Route     *navigation.PathResult    `json:"route,omitempty"`
	Faculty   *facility.Faculty         `json:"faculty,omitempty"`
	Available *bool                     `json:"available,omitempty"`
	Search    *navigation.SearchResults `json:"search,omitempty"`
}

// Assistant turns questions into navigator calls.
type Assistant struct {
	nav          Navigator
	defaultStart string
	logger       logging.Logger
	recorder     Recorder
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithDefaultStart sets the starting point for destination-only questions.
func WithDefaultStart(start string) Option {
	return func(a *Assistant) {
		if s := strings.TrimSpace(start); s != "" {
			a.defaultStart = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Assistant) {
		a.recorder = r
	}
}

// New creates an assistant over nav.
func New(nav Navigator, opts ...Option) *Assistant {
	a := &Assistant{
		nav:          nav,
		defaultStart: DefaultStart,
		logger:       logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultStart returns the configured starting point.
func (a *Assistant) DefaultStart() string {
	return a.defaultStart
}

// Ask answers query. start overrides the default starting point for
// destination-only questions and faculty lookups; pass "" to use the default.
// Failures are reported as KindError responses rather than errors.
func (a *Assistant) Ask(query, start string) *Response {
	query = strings.TrimSpace(query)
	if start = strings.TrimSpace(start); start == "" {
		start = a.defaultStart
	}

	intent := Classify(query)
	var resp *Response
	switch intent {
	case IntentFaculty:
		resp = a.faculty(query, start)
	case IntentRoute:
		resp = a.route(query, start)
	default:
		resp = a.search(query)
	}

	if a.recorder != nil {
		a.recorder.RecordAssistantQuery(string(resp.Intent))
	}
	a.logger.Debug("assistant query answered",
		logging.Query(query),
		logging.String("intent", string(resp.Intent)),
		logging.String("kind", string(resp.Kind)))
	return resp
}

func (a *Assistant) route(query, start string) *Response {
	rq, ok := ParseRoute(query)
	if !ok {
		return failure(IntentRoute, "I couldn't understand the destination. Please specify where you want to go. "+
			"For example: \"How do I get to the Library?\" or \"Navigate from MIS to Registrar\".")
	}
	if rq.Start == "" {
		rq.Start = start
	}

	result, err := a.nav.Navigate(rq.Start, rq.Destination)
	if err != nil {
		return failure(IntentRoute, routeFailure(err, rq))
	}
	return &Response{
		Kind:    KindRoute,
		Intent:  IntentRoute,
		Message: RenderRoute(result),
		Route:   result,
	}
}

func (a *Assistant) faculty(query, start string) *Response {
	name, ok := ParseFaculty(query)
	if !ok {
		return failure(IntentFaculty, "Please specify the faculty member's name. "+
			"For example: \"Where is Ma'am Jennifer Magbanlac?\"")
	}

	fr, err := a.nav.NavigateToFaculty(start, name, nil)
	switch {
	case errors.Is(err, navigation.ErrFacultyNotFound):
		// "where is faculty office" reads like a faculty question but names a place.
		if _, ok := ParseRoute(query); ok {
			if resp := a.route(query, start); resp.Kind == KindRoute {
				return resp
			}
		}
		return failure(IntentFaculty, fmt.Sprintf("I couldn't find %q. Please check the name and try again.", name))
	case err != nil:
		return failure(IntentFaculty, routeFailure(err, RouteQuery{Start: start, Destination: name}))
	}

	available := fr.Available
	return &Response{
		Kind:      KindRoute,
		Intent:    IntentFaculty,
		Message:   RenderFaculty(fr),
		Route:     fr.Route,
		Faculty:   fr.Faculty,
		Available: &available,
	}
}

func (a *Assistant) search(query string) *Response {
	results := a.nav.Search(query)
	if results.Total() == 0 {
		return failure(IntentSearch, fmt.Sprintf("No results found for %q. "+
			"Try searching for rooms, departments, services, or faculty members.", query))
	}
	return &Response{
		Kind:    KindSearch,
		Intent:  IntentSearch,
		Message: RenderSearch(results),
		Search:  results,
	}
}

func routeFailure(err error, rq RouteQuery) string {
	switch {
	case errors.Is(err, navigation.ErrStartNotFound):
		return fmt.Sprintf("I couldn't find the starting point %q. Please check the location name and try again.", rq.Start)
	case errors.Is(err, navigation.ErrDestinationNotFound):
		return fmt.Sprintf("I couldn't find a route to %q. Please check the location name and try again. "+
			"You can search for available locations by name.", rq.Destination)
	case errors.Is(err, navigation.ErrNoPath):
		return fmt.Sprintf("There is currently no available route from %q to %q. "+
			"Some areas may be closed or unreachable without stairs.", rq.Start, rq.Destination)
	default:
		return fmt.Sprintf("I couldn't plan a route to %q: %v", rq.Destination, err)
	}
}

func failure(intent Intent, msg string) *Response {
	return &Response{Kind: KindError, Intent: intent, Message: msg}
}
