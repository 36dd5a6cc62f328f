package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. WAYFINDER_SERVER_PORT.
const EnvPrefix = "WAYFINDER"

var errShortSecret = errors.New("must be at least 32 characters")

// SetDefaults registers a default for every key. Keys without a default are
// invisible to AutomaticEnv during Unmarshal, so every field is listed.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("facility.source", "")
	v.SetDefault("facility.accessibility", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("server.tls.auto_generate", true)
	v.SetDefault("server.tls.hosts", []string{"localhost", "127.0.0.1"})
	v.SetDefault("server.tls.valid_for", 365*24*time.Hour)
	v.SetDefault("server.tls.min_version", "1.2")

	v.SetDefault("log.level", "info")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.operator_user", "")
	v.SetDefault("auth.operator_password_hash", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("store.postgres_url", "")

	v.SetDefault("sync.instance_id", "")
	v.SetDefault("sync.publish_addr", "")
	v.SetDefault("sync.peers", []string{})

	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")

	v.SetDefault("assistant.default_start", "MIS")

	v.SetDefault("audit.buffer_size", 1000)
	v.SetDefault("audit.path", "")
}

// NewViper returns a viper instance with defaults and environment binding.
// When path is set the file is read as well; its format follows the extension.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// Load reads defaults, the optional file at path and the environment, then validates.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
