package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LevelEnv names the environment variable consulted by DefaultLogger.
const LevelEnv = "WAYFINDER_LOG_LEVEL"

// Keys every JSON line carries. A field using one of them is written under
// "field." + key instead.
const (
	TimeKey    = "time"
	LevelKey   = "level"
	MessageKey = "msg"
)

// JSONLogger writes one flat JSON object per line.
type JSONLogger struct {
	writer io.Writer
	fields []Field
	sink   *sink
}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{writer: writer, sink: newSink(level)}
}

// flatten merges preset and call fields; later keys win.
func flatten(preset, fields []Field) map[string]any {
	m := make(map[string]any, len(preset)+len(fields)+3)
	for _, set := range [][]Field{preset, fields} {
		for _, f := range set {
			key := f.Key
			if key == TimeKey || key == LevelKey || key == MessageKey {
				key = "field." + key
			}
			m[key] = f.Value
		}
	}
	return m
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if !l.sink.enabled(level) {
		return
	}

	entry := flatten(l.fields, fields)
	entry[TimeKey] = time.Now().UTC().Format(time.RFC3339Nano)
	entry[LevelKey] = level.String()
	entry[MessageKey] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		data = fmt.Appendf(nil, `{"level":"ERROR","msg":"failed to marshal log entry","error":%q}`, err.Error())
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.writer.Write(append(data, '\n'))
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With creates a child logger with the given fields pre-set
func (l *JSONLogger) With(fields ...Field) Logger {
	return &JSONLogger{writer: l.writer, fields: appendFields(l.fields, fields), sink: l.sink}
}

// SetLevel changes the level for this logger, its parent and all its children.
func (l *JSONLogger) SetLevel(level Level) { l.sink.level.Store(int32(level)) }

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level { return Level(l.sink.level.Load()) }

func appendFields(preset, fields []Field) []Field {
	out := make([]Field, 0, len(preset)+len(fields))
	out = append(out, preset...)
	return append(out, fields...)
}

// Global default logger
var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process-wide logger. Until SetDefaultLogger is
// called it is a JSON logger on stderr at the level named by
// WAYFINDER_LOG_LEVEL or LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewJSONLogger(os.Stderr, levelFromEnv())
	}
	return defaultLogger
}

func levelFromEnv() Level {
	for _, env := range []string{LevelEnv, "LOG_LEVEL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return ParseLevel(v)
		}
	}
	return InfoLevel
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at INFO with its latency.
func (t *TimedOperation) End() {
	t.logger.Info(t.msg, append(t.fields, Latency(time.Since(t.start)))...)
}

// EndError logs the operation at ERROR with its latency and err.
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, append(t.fields, Latency(time.Since(t.start)), Error(err))...)
}
