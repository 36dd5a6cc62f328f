package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadWithViper(newTestViper())
	if err != nil {
		t.Fatalf("LoadWithViper failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, StoreMemory)
	}
	if cfg.Auth.Enabled() {
		t.Error("Auth must be disabled without a secret")
	}
	if cfg.Assistant.DefaultStart != "MIS" {
		t.Errorf("Assistant.DefaultStart = %q, want MIS", cfg.Assistant.DefaultStart)
	}
	if cfg.Facility.Source != "" || cfg.Facility.Accessibility {
		t.Errorf("Unexpected facility defaults: %+v", cfg.Facility)
	}
	if tls := cfg.Server.TLS; tls.Enabled || !tls.AutoGenerate || tls.MinVersion != "1.2" || len(tls.Hosts) != 2 {
		t.Errorf("Unexpected TLS defaults: %+v", tls)
	}
	if cfg.Audit.BufferSize != 1000 || cfg.Audit.Path != "" {
		t.Errorf("Unexpected audit defaults: %+v", cfg.Audit)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.yaml")
	content := `
facility:
  source: ./campus.json
  accessibility: true
server:
  port: 9090
  read_timeout: 5s
  tls:
    enabled: true
    cert_file: /etc/wayfinder/server.crt
    key_file: /etc/wayfinder/server.key
    min_version: "1.3"
log:
  level: DEBUG
store:
  backend: file
  data_dir: /var/lib/wayfinder
sync:
  publish_addr: tcp://0.0.0.0:7700
  peers:
    - tcp://10.0.0.2:7700
    - tcp://10.0.0.3:7700
audit:
  path: /var/log/wayfinder/audit.jsonl
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !cfg.Facility.Accessibility || cfg.Facility.Source != "./campus.json" {
		t.Errorf("Facility = %+v", cfg.Facility)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Store.DataDir != "/var/lib/wayfinder" {
		t.Errorf("Store.DataDir = %q", cfg.Store.DataDir)
	}
	if len(cfg.Sync.Peers) != 2 || cfg.Sync.Peers[1] != "tcp://10.0.0.3:7700" {
		t.Errorf("Sync.Peers = %v", cfg.Sync.Peers)
	}
	if tls := cfg.Server.TLS; !tls.Enabled || tls.KeyFile != "/etc/wayfinder/server.key" || tls.MinVersion != "1.3" {
		t.Errorf("Server.TLS = %+v", tls)
	}
	if cfg.Audit.Path != "/var/log/wayfinder/audit.jsonl" || cfg.Audit.BufferSize != 1000 {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default 15s", cfg.Server.WriteTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("WAYFINDER_SERVER_PORT", "7070")
	t.Setenv("WAYFINDER_FACILITY_ACCESSIBILITY", "true")
	t.Setenv("WAYFINDER_SYNC_INSTANCE_ID", "kiosk-3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if !cfg.Facility.Accessibility {
		t.Error("Expected accessibility from environment")
	}
	if cfg.Sync.InstanceID != "kiosk-3" {
		t.Errorf("Sync.InstanceID = %q", cfg.Sync.InstanceID)
	}
}

func TestValidate(t *testing.T) {
	secret := strings.Repeat("s", 32)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "Server.Port"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "Log.Level"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "Store.Backend"},
		{"postgres without url", func(c *Config) { c.Store.Backend = StorePostgres }, "Store.PostgresURL"},
		{"file without dir", func(c *Config) {
			c.Store.Backend = StoreFile
			c.Store.DataDir = ""
		}, "Store.DataDir"},
		{"short secret", func(c *Config) {
			c.Auth.Secret = "short"
			c.Auth.OperatorUser = "ops"
			c.Auth.OperatorPasswordHash = "$2a$12$hash"
		}, "Auth.Secret"},
		{"secret without operator", func(c *Config) { c.Auth.Secret = secret }, "Auth.OperatorUser"},
		{"auth complete", func(c *Config) {
			c.Auth.Secret = secret
			c.Auth.OperatorUser = "ops"
			c.Auth.OperatorPasswordHash = "$2a$12$hash"
		}, ""},
		{"s3 key without secret", func(c *Config) { c.S3.AccessKeyID = "AKIA" }, "S3.SecretAccessKey"},
		{"tls auto-generated", func(c *Config) { c.Server.TLS.Enabled = true }, ""},
		{"tls bad version", func(c *Config) {
			c.Server.TLS.Enabled = true
			c.Server.TLS.MinVersion = "1.0"
		}, "Server.TLS.MinVersion"},
		{"tls cert without key", func(c *Config) {
			c.Server.TLS.Enabled = true
			c.Server.TLS.CertFile = "/etc/wayfinder/server.crt"
		}, "Server.TLS.KeyFile"},
		{"tls without any certificate", func(c *Config) {
			c.Server.TLS.Enabled = true
			c.Server.TLS.AutoGenerate = false
		}, "Server.TLS.CertFile"},
		{"zero audit buffer", func(c *Config) { c.Audit.BufferSize = 0 }, "Audit.BufferSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithViper(newTestViper())
			if err != nil {
				t.Fatalf("LoadWithViper failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}
