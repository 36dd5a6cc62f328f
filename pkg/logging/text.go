package logging

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TextLogger writes aligned, human-readable lines for terminals:
//
//	14:03:07 WARN  restricted destination  node_id=library
type TextLogger struct {
	writer io.Writer
	fields []Field
	sink   *sink
	now    func() time.Time
}

// NewTextLogger creates a text logger.
func NewTextLogger(writer io.Writer, level Level) *TextLogger {
	return &TextLogger{writer: writer, sink: newSink(level), now: time.Now}
}

func (l *TextLogger) log(level Level, msg string, fields []Field) {
	if !l.sink.enabled(level) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", l.now().Format("15:04:05"), level, msg)

	m := flatten(l.fields, fields)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		sep := " "
		if i == 0 {
			sep = "  "
		}
		b.WriteString(sep + k + "=" + formatValue(m[k]))
	}
	b.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	io.WriteString(l.writer, b.String())
}

// formatValue quotes strings that would not survive whitespace splitting.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	if v == nil {
		return "<nil>"
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func (l *TextLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *TextLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *TextLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *TextLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With creates a child logger with the given fields pre-set
func (l *TextLogger) With(fields ...Field) Logger {
	return &TextLogger{writer: l.writer, fields: appendFields(l.fields, fields), sink: l.sink, now: l.now}
}

func (l *TextLogger) SetLevel(level Level) { l.sink.level.Store(int32(level)) }
func (l *TextLogger) GetLevel() Level      { return Level(l.sink.level.Load()) }
