package logging

import "time"

func String(key, value string) Field    { return Field{key, value} }
func Int(key string, value int) Field   { return Field{key, value} }
func Bool(key string, value bool) Field { return Field{key, value} }
func Any(key string, value any) Field   { return Field{key, value} }

// Duration renders d in Go notation, e.g. "1.5ms".
func Duration(key string, d time.Duration) Field { return Field{key, d.String()} }

// Error records err under "error"; a nil err is logged as null.
func Error(err error) Field {
	if err == nil {
		return Field{"error", nil}
	}
	return Field{"error", err.Error()}
}

// Keys shared across packages.

func Component(name string) Field   { return String("component", name) }
func RequestID(id string) Field     { return String("request_id", id) }
func Operation(op string) Field     { return String("operation", op) }
func Path(p string) Field           { return String("path", p) }
func Count(n int) Field             { return Int("count", n) }
func Latency(d time.Duration) Field { return Duration("latency", d) }

// Navigation keys.

func NodeID(id string) Field  { return String("node_id", id) }
func Floor(name string) Field { return String("floor", name) }
func Query(q string) Field    { return String("query", q) }
func Mode(m string) Field     { return String("mode", m) }
func Distance(d int) Field    { return Int("distance", d) }
