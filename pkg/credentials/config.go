// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/gcpkit/gcpkit/pkg/version"
)

// ErrNoProjectID is an error, which is returned when an operation requires a
// project id, but none was configured or could be inferred from the
// environment.
var ErrNoProjectID = errors.New("no project id specified")

// ErrNoLocation is an error, which is returned when an operation requires a
// location, but none was configured or could be inferred from the
// environment.
var ErrNoLocation = errors.New("no location specified")

// Config carries the resolved credentials and the defaults shared by all
// gcpkit service clients.
type Config struct {
	// ProjectID is the GCP project the service clients operate on.
	ProjectID string

	// Location is the default GCP location/region for location-scoped
	// services such as Cloud Tasks and Cloud Scheduler.
	Location string

	// UserAgent is the User-Agent header sent with API calls.
	UserAgent string

	creds  *google.Credentials
	logger *slog.Logger
}

// Option is a function which configures a [Config].
type Option func(*Config)

// WithProjectID sets an explicit project id.
func WithProjectID(projectID string) Option {
	return func(c *Config) {
		c.ProjectID = projectID
	}
}

// WithLocation sets an explicit location/region.
func WithLocation(location string) Option {
	return func(c *Config) {
		c.Location = location
	}
}

// WithUserAgent sets an explicit User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Config) {
		c.UserAgent = userAgent
	}
}

// WithLogger sets the logger used by the service clients.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithCredentials sets pre-resolved credentials, bypassing the resolver.
func WithCredentials(creds *google.Credentials) Option {
	return func(c *Config) {
		c.creds = creds
	}
}

// Configure resolves the credentials described by spec and produces a
// [Config] with project and location defaults inferred from the environment,
// unless set explicitly via options.
func (r *Resolver) Configure(ctx context.Context, spec Spec, opts ...Option) (*Config, error) {
	conf := &Config{}
	for _, opt := range opts {
		opt(conf)
	}

	if conf.logger == nil {
		conf.logger = slog.Default()
	}

	if conf.UserAgent == "" {
		conf.UserAgent = fmt.Sprintf("gcpkit/%s", version.Version)
	}

	if conf.creds == nil {
		creds, err := r.Resolve(ctx, spec)
		if err != nil {
			return nil, err
		}
		conf.creds = creds
	}

	if conf.ProjectID == "" {
		conf.ProjectID = inferProjectID(ctx, conf.creds)
	}

	if conf.Location == "" {
		conf.Location = inferLocation(ctx)
	}

	return conf, nil
}

// DefaultConfig produces a [Config] using Application Default Credentials
// resolved by the [DefaultResolver].
func DefaultConfig(ctx context.Context, opts ...Option) (*Config, error) {
	return DefaultResolver.Configure(ctx, Spec{}, opts...)
}

// Credentials returns the resolved credentials.
func (c *Config) Credentials() *google.Credentials {
	return c.creds
}

// Logger returns the logger used by the service clients.
func (c *Config) Logger() *slog.Logger {
	return c.logger
}

// RequireProject returns [ErrNoProjectID], if the config carries no project.
func (c *Config) RequireProject() error {
	if c.ProjectID == "" {
		return ErrNoProjectID
	}

	return nil
}

// RequireLocation returns [ErrNoLocation], if the config carries no location.
func (c *Config) RequireLocation() error {
	if c.Location == "" {
		return ErrNoLocation
	}

	return nil
}

// ClientOptions returns the [option.ClientOption] slice to pass to vendor SDK
// client constructors.
func (c *Config) ClientOptions() []option.ClientOption {
	opts := []option.ClientOption{
		option.WithUserAgent(c.UserAgent),
	}

	if c.creds != nil {
		opts = append(opts, option.WithCredentials(c.creds))
	}

	return opts
}

// inferProjectID determines the default project id: the one carried by the
// credentials, then the environment, then the metadata server when running on
// GCE. Returns an empty string when nothing matched.
func inferProjectID(ctx context.Context, creds *google.Credentials) string {
	if creds != nil && creds.ProjectID != "" {
		return creds.ProjectID
	}

	for _, env := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}

	if metadata.OnGCE() {
		if project, err := metadata.ProjectIDWithContext(ctx); err == nil {
			return project
		}
	}

	return ""
}

// inferLocation determines the default location from the environment, or from
// the metadata server zone when running on GCE.
func inferLocation(ctx context.Context) string {
	for _, env := range []string{"GOOGLE_CLOUD_LOCATION", "GCP_LOCATION"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}

	if metadata.OnGCE() {
		if zone, err := metadata.ZoneWithContext(ctx); err == nil {
			return regionFromZone(zone)
		}
	}

	return ""
}

// regionFromZone derives the region from a GCE zone name, e.g. the zone
// europe-west1-b belongs to the europe-west1 region.
func regionFromZone(zone string) string {
	idx := strings.LastIndex(zone, "-")
	if idx <= 0 {
		return zone
	}

	return zone[:idx]
}
