// Package config loads wayfinder settings from defaults, an optional YAML file
// and WAYFINDER_* environment variables.
package config

import (
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	tlspkg "github.com/dd0wney/cluso-wayfinder/pkg/tls"
	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Facility  FacilityConfig  `mapstructure:"facility"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Store     StoreConfig     `mapstructure:"store"`
	Sync      SyncConfig      `mapstructure:"sync"`
	S3        S3Config        `mapstructure:"s3"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Audit     AuditConfig     `mapstructure:"audit"`
}

// FacilityConfig selects the facility description.
type FacilityConfig struct {
	// Source is a file path, an s3://bucket/key URL, or empty for the built-in campus.
	Source        string `mapstructure:"source"`
	Accessibility bool   `mapstructure:"accessibility"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	TLS             tlspkg.Config `mapstructure:"tls"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig guards restriction changes. Auth is off when Secret is empty.
type AuthConfig struct {
	Secret               string        `mapstructure:"secret"`
	OperatorUser         string        `mapstructure:"operator_user"`
	OperatorPasswordHash string        `mapstructure:"operator_password_hash"`
	TokenTTL             time.Duration `mapstructure:"token_ttl"`
}

// Enabled reports whether bearer tokens are required for restriction changes.
func (a AuthConfig) Enabled() bool {
	return a.Secret != ""
}

// StoreConfig selects where the restriction overlay is persisted.
type StoreConfig struct {
	Backend     string `mapstructure:"backend"`
	DataDir     string `mapstructure:"data_dir"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// SyncConfig configures restriction fan-out between instances.
type SyncConfig struct {
	InstanceID  string   `mapstructure:"instance_id"`
	PublishAddr string   `mapstructure:"publish_addr"`
	Peers       []string `mapstructure:"peers"`
}

// S3Config configures the client used for s3:// facility sources.
type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// AssistantConfig configures natural-language queries.
type AssistantConfig struct {
	DefaultStart string `mapstructure:"default_start"`
}

// AuditConfig controls the record of restriction changes and operator logins.
type AuditConfig struct {
	// BufferSize is how many recent events GET /audit can return.
	BufferSize int `mapstructure:"buffer_size"`
	// Path, when set, also appends every event to a JSON-lines file.
	Path string `mapstructure:"path"`
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		RequiredDuration("Server.ReadTimeout", c.Server.ReadTimeout).
		RequiredDuration("Server.WriteTimeout", c.Server.WriteTimeout).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second).
		Positive("Server.MaxBodyBytes", int(c.Server.MaxBodyBytes)).
		OneOf("Log.Level", c.Log.Level, logging.LevelNames).
		OneOf("Store.Backend", c.Store.Backend, []string{StoreMemory, StoreFile, StorePostgres}).
		When(c.Store.Backend == StoreFile, func(v *validation.ConfigValidator) {
			v.Required("Store.DataDir", c.Store.DataDir)
		}).
		When(c.Store.Backend == StorePostgres, func(v *validation.ConfigValidator) {
			v.Required("Store.PostgresURL", c.Store.PostgresURL)
		}).
		When(c.Auth.Enabled(), func(v *validation.ConfigValidator) {
			v.Custom("Auth.Secret", func() error {
				if len(c.Auth.Secret) < 32 {
					return errShortSecret
				}
				return nil
			}).
				Required("Auth.OperatorUser", c.Auth.OperatorUser).
				Required("Auth.OperatorPasswordHash", c.Auth.OperatorPasswordHash).
				MinDuration("Auth.TokenTTL", c.Auth.TokenTTL, time.Minute)
		}).
		When(c.S3.AccessKeyID != "", func(v *validation.ConfigValidator) {
			v.Required("S3.SecretAccessKey", c.S3.SecretAccessKey)
		}).
		When(c.Server.TLS.Enabled, func(v *validation.ConfigValidator) {
			v.Custom("Server.TLS.MinVersion", func() error {
				_, err := tlspkg.ParseVersion(c.Server.TLS.MinVersion)
				return err
			}).
				When(c.Server.TLS.CertFile != "" || !c.Server.TLS.AutoGenerate, func(v *validation.ConfigValidator) {
					v.Required("Server.TLS.CertFile", c.Server.TLS.CertFile).
						Required("Server.TLS.KeyFile", c.Server.TLS.KeyFile)
				})
		}).
		Positive("Audit.BufferSize", c.Audit.BufferSize).
		Validate()
}
