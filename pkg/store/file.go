package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const restrictionsFile = "restrictions.json"

// FileStore persists restrictions as JSON in a data directory.
// Every change rewrites the file through a temporary file and rename.
type FileStore struct {
	dataDir      string
	restrictions map[string]Restriction
	mu           sync.RWMutex
}

// NewFileStore opens (or creates) a store under dataDir
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &FileStore{
		dataDir:      dataDir,
		restrictions: make(map[string]Restriction),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Load implements RestrictionStore.
func (s *FileStore) Load(_ context.Context) ([]Restriction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sorted(s.restrictions), nil
}

// Set implements RestrictionStore.
func (s *FileStore) Set(_ context.Context, r Restriction, restricted bool) error {
	if r.NodeID == "" {
		return ErrEmptyNodeID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.restrictions[r.NodeID]
	if restricted {
		s.restrictions[r.NodeID] = r
	} else {
		delete(s.restrictions, r.NodeID)
	}

	if err := s.save(); err != nil {
		if had {
			s.restrictions[r.NodeID] = prev
		} else {
			delete(s.restrictions, r.NodeID)
		}
		return err
	}
	return nil
}

// Ping checks the data directory is still there
func (s *FileStore) Ping(_ context.Context) error {
	_, err := os.Stat(s.dataDir)
	return err
}

// Close is a no-op for file-based store
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dataDir, restrictionsFile)
}

// save persists restrictions to disk
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(sorted(s.restrictions), "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write restrictions: %w", err)
	}
	return os.Rename(tmp, s.path())
}

// load reads restrictions from disk
func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var list []Restriction
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse %s: %w", s.path(), err)
	}
	for _, r := range list {
		s.restrictions[r.NodeID] = r
	}
	return nil
}
