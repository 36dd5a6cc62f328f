package navigation

import "errors"

var (
	// ErrLocationNotFound means free text did not resolve to any node.
	ErrLocationNotFound = errors.New("location not found")
	// ErrStartNotFound wraps ErrLocationNotFound for the starting point.
	ErrStartNotFound = wrapNotFound("starting location not found")
	// ErrDestinationNotFound wraps ErrLocationNotFound for the destination.
	ErrDestinationNotFound = wrapNotFound("destination not found")
	// ErrFacultyNotFound means free text did not resolve to a faculty member.
	ErrFacultyNotFound = errors.New("faculty not found")
	// ErrNoFacultyLocation means the faculty record carries no rooms.
	ErrNoFacultyLocation = errors.New("faculty has no location")
	// ErrNoPath means both endpoints exist but nothing connects them under the
	// current mode and restrictions.
	ErrNoPath = errors.New("no path")
	// ErrUnknownNode means an identifier is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownQuickAccess means no shortcut has the requested name.
	ErrUnknownQuickAccess = errors.New("unknown quick access entry")
)

type notFoundError struct {
	msg string
}

func wrapNotFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return ErrLocationNotFound }
