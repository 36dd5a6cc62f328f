package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLogger appends events to a JSON-lines file and syncs after each write.
type FileLogger struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	enc   *json.Encoder
	count int64
}

// NewFileLogger opens path for appending, creating it and its directory if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &FileLogger{path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// Log appends event as one JSON line.
func (l *FileLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return ErrClosed
	}
	stamp(event)
	if err := l.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}
	l.count++
	return nil
}

// GetEventCount returns the number of events written since the file was opened.
func (l *FileLogger) GetEventCount() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Path returns the file being written.
func (l *FileLogger) Path() string {
	return l.path
}

// Close closes the file. Later calls to Log fail with ErrClosed.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ErrClosed is returned by Log after Close.
var ErrClosed = errors.New("audit log closed")

// ReadFile loads every event from a JSON-lines audit file, oldest first.
func ReadFile(path string) ([]*Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []*Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		events = append(events, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
