// Package logging is wayfinder's structured logger: JSON lines for services,
// aligned text for terminals, one Field type for both.
package logging

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level orders log severities.
type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the upper-case level name written to output.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, case-insensitively.
// Unknown names fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelNames lists the accepted level names, lowest first.
var LevelNames = []string{"debug", "info", "warn", "error"}

// Field is one key-value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// Logger is the interface every package logs through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child that prefixes fields to every line. Children share
	// the parent's output and level.
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// sink is the state a logger shares with all of its children: one writer
// lock so lines never interleave, and one level so SetLevel on the root
// reaches every component logger.
type sink struct {
	mu    sync.Mutex
	level atomic.Int32
}

func newSink(level Level) *sink {
	s := &sink{}
	s.level.Store(int32(level))
	return s
}

func (s *sink) enabled(level Level) bool {
	return level >= Level(s.level.Load())
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs an operation once it finishes, with its latency.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
