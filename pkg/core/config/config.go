// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoConfigVersion error is returned when the configuration does not specify
// config format version.
var ErrNoConfigVersion = errors.New("config format version not specified")

// ErrUnsupportedVersion is an error, which is returned when the config file
// uses an incompatible version format.
var ErrUnsupportedVersion = errors.New("unsupported config format version")

// ConfigFormatVersion represents the supported config format version.
const ConfigFormatVersion = "v1alpha1"

// Authentication methods supported by named credentials.
const (
	// AuthenticationMethodNone uses Application Default Credentials only.
	AuthenticationMethodNone = "none"

	// AuthenticationMethodKeyFile authenticates using a service account
	// JSON key file.
	AuthenticationMethodKeyFile = "key_file"

	// AuthenticationMethodKeyJSON authenticates using inline service
	// account JSON key data.
	AuthenticationMethodKeyJSON = "key_json"
)

// Config represents the gcpkit configuration.
type Config struct {
	// Version is the version of the config file.
	Version string `yaml:"version"`

	// Debug configures debug mode, if set to true.
	Debug bool `yaml:"debug"`

	// Logging provides the logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Project is the default GCP Project ID. When empty the project is
	// inferred from the environment.
	Project string `yaml:"project"`

	// Location is the default GCP location/region. When empty the
	// location is inferred from the environment.
	Location string `yaml:"location"`

	// UserAgent is the User-Agent header to send with API calls.
	UserAgent string `yaml:"user_agent"`

	// Credentials provides the named credentials.
	Credentials map[string]Credentials `yaml:"credentials"`

	// Services maps a service name to its service-specific settings, such
	// as which named credentials to use.
	Services map[string]ServiceConfig `yaml:"services"`
}

// Credentials represents a named credentials configuration.
type Credentials struct {
	// Authentication is the authentication method to use. The supported
	// methods are "none", "key_file" and "key_json".
	Authentication string `yaml:"authentication"`

	// KeyFile provides the key file settings, when using the "key_file"
	// authentication method.
	KeyFile KeyFileConfig `yaml:"key_file"`

	// KeyJSON provides inline service account key data, when using the
	// "key_json" authentication method.
	KeyJSON string `yaml:"key_json"`

	// Impersonate optionally configures a service account to impersonate.
	Impersonate ImpersonateConfig `yaml:"impersonate"`

	// Scopes optionally overrides the OAuth2 scopes to request.
	Scopes []string `yaml:"scopes"`
}

// KeyFileConfig provides the service account JSON key file settings.
type KeyFileConfig struct {
	// Path is the path to the service account JSON key file.
	Path string `yaml:"path"`
}

// ImpersonateConfig provides service account impersonation settings.
type ImpersonateConfig struct {
	// Target is the email address of the service account to impersonate.
	Target string `yaml:"target"`

	// Delegates is the optional chain of delegates required to grant the
	// impersonated token.
	Delegates []string `yaml:"delegates"`
}

// ServiceConfig provides service-specific configuration settings.
type ServiceConfig struct {
	// UseCredentials is the name of the named credentials to use for the
	// service. When empty, Application Default Credentials are used.
	UseCredentials string `yaml:"use_credentials"`

	// Project optionally overrides the default project for the service.
	Project string `yaml:"project"`

	// Location optionally overrides the default location for the service.
	Location string `yaml:"location"`
}

// LoggingConfig provides logging-specific configuration settings.
type LoggingConfig struct {
	// Level specifies the log level to use.
	Level string `yaml:"level"`

	// Format specifies the log format to use.
	Format string `yaml:"format"`

	// AddSource specifies whether to include source code position of the
	// log statements.
	AddSource bool `yaml:"add_source"`

	// Attributes provides additional attributes to add to each log event.
	Attributes map[string]string `yaml:"attributes"`
}

// Parse parses the config from the given path.
func Parse(path string) (*Config, error) {
	var conf Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}

	if conf.Version == "" {
		return nil, ErrNoConfigVersion
	}

	if conf.Version != ConfigFormatVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, conf.Version)
	}

	return &conf, nil
}

// MustParse parses the config from the given path, or panics in case of errors.
func MustParse(path string) *Config {
	config, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return config
}
