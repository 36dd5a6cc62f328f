package config

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
)

// FacilityOptions returns the S3 settings as loader options.
func (c *Config) FacilityOptions() []facility.LoadOption {
	var opts []facility.LoadOption
	if c.S3.Region != "" {
		opts = append(opts, facility.WithS3Region(c.S3.Region))
	}
	if c.S3.Endpoint != "" {
		opts = append(opts, facility.WithS3Endpoint(c.S3.Endpoint))
	}
	if c.S3.AccessKeyID != "" {
		opts = append(opts, facility.WithS3StaticCredentials(c.S3.AccessKeyID, c.S3.SecretAccessKey))
	}
	return opts
}

// LoadFacility reads facility.source, or the embedded sample campus when it is empty.
func (c *Config) LoadFacility(ctx context.Context) (*facility.Description, error) {
	if c.Facility.Source == "" {
		return facility.Sample()
	}
	return facility.Load(ctx, c.Facility.Source, c.FacilityOptions()...)
}

// NewNavigator loads the facility and builds a navigator in the configured mode.
func (c *Config) NewNavigator(ctx context.Context, opts ...navigation.Option) (*navigation.Navigator, error) {
	desc, err := c.LoadFacility(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]navigation.Option{navigation.WithAccessibility(c.Facility.Accessibility)}, opts...)
	return navigation.New(desc, opts...)
}

// OpenStore opens the configured restriction store backend.
func (c *Config) OpenStore(ctx context.Context, logger logging.Logger) (store.RestrictionStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	switch c.Store.Backend {
	case StoreMemory, "":
		logger.Info("restrictions kept in memory; they will not survive a restart")
		return store.NewMemoryStore(), nil
	case StoreFile:
		logger.Info("opening file restriction store", logging.Path(c.Store.DataDir))
		return store.NewFileStore(c.Store.DataDir)
	case StorePostgres:
		logger.Info("opening postgres restriction store")
		return store.NewPGStore(ctx, c.Store.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
