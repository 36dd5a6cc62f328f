package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
)

func TestLoadFacility_Sample(t *testing.T) {
	cfg, err := LoadWithViper(newTestViper())
	if err != nil {
		t.Fatalf("LoadWithViper failed: %v", err)
	}

	desc, err := cfg.LoadFacility(context.Background())
	if err != nil {
		t.Fatalf("LoadFacility failed: %v", err)
	}
	if len(desc.Floors) != 4 {
		t.Errorf("Floors = %d, want 4", len(desc.Floors))
	}
}

func TestNewNavigator_FromCompressedFile(t *testing.T) {
	sample, err := facility.Sample()
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "campus.yaml.sz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := facility.Encode(f, sample, facility.FormatYAML, true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	f.Close()

	v := newTestViper()
	v.Set("facility.source", path)
	v.Set("facility.accessibility", true)
	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper failed: %v", err)
	}

	nav, err := cfg.NewNavigator(context.Background())
	if err != nil {
		t.Fatalf("NewNavigator failed: %v", err)
	}
	if got := nav.Mode().String(); got != "accessible" {
		t.Errorf("Mode = %s, want accessible", got)
	}
	if got := nav.Stats().Nodes; got != 23 {
		t.Errorf("Nodes = %d, want 23", got)
	}
}

func TestLoadFacility_MissingFile(t *testing.T) {
	cfg := &Config{Facility: FacilityConfig{Source: filepath.Join(t.TempDir(), "nope.json")}}
	if _, err := cfg.LoadFacility(context.Background()); err == nil {
		t.Error("Expected error for a missing facility file")
	}
}

func TestFacilityOptions(t *testing.T) {
	cfg := &Config{}
	if opts := cfg.FacilityOptions(); len(opts) != 0 {
		t.Errorf("Expected no options, got %d", len(opts))
	}

	cfg.S3 = S3Config{Region: "ap-southeast-1", Endpoint: "http://localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"}
	if opts := cfg.FacilityOptions(); len(opts) != 3 {
		t.Errorf("Expected 3 options, got %d", len(opts))
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := &Config{Store: StoreConfig{Backend: StoreMemory}}
	st, err := cfg.OpenStore(ctx, nil)
	if err != nil {
		t.Fatalf("OpenStore(memory) failed: %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("Expected *store.MemoryStore, got %T", st)
	}
	st.Close()

	cfg = &Config{Store: StoreConfig{Backend: StoreFile, DataDir: filepath.Join(t.TempDir(), "overlay")}}
	st, err = cfg.OpenStore(ctx, nil)
	if err != nil {
		t.Fatalf("OpenStore(file) failed: %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("Expected *store.FileStore, got %T", st)
	}
	st.Close()

	cfg = &Config{Store: StoreConfig{Backend: "redis"}}
	if _, err := cfg.OpenStore(ctx, nil); err == nil {
		t.Error("Expected error for an unknown backend")
	}
}
