// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
)

// errNoAuthenticationMethod is an error, which is returned when a named
// credentials entry does not specify an authentication method.
var errNoAuthenticationMethod = errors.New("no authentication method specified")

// errUnknownAuthenticationMethod is an error, which is returned when using an
// unknown/unsupported authentication method/strategy.
var errUnknownAuthenticationMethod = errors.New("unknown authentication method specified")

// errNoKeyFile is an error, which is returned when no path to a service
// account JSON key file was specified for a named credential.
var errNoKeyFile = errors.New("no service account JSON key file specified")

// errNoKeyJSON is an error, which is returned when no inline service account
// key data was specified for a named credential.
var errNoKeyJSON = errors.New("no service account key data specified")

// errUnknownNamedCredentials is an error, which is returned when a service
// refers to named credentials, which are not defined.
var errUnknownNamedCredentials = errors.New("unknown named credentials")

// errUnknownService is an error, which is returned when the services section
// refers to a service not supported by gcpkit.
var errUnknownService = errors.New("unknown service")

// SupportedServices contains the names of the services, which may appear in
// the services section of the configuration.
var SupportedServices = []string{
	"bigquery",
	"cloudbuild",
	"cloudtasks",
	"datastore",
	"dns",
	"monitoring",
	"pubsub",
	"resourcemanager",
	"scheduler",
	"secretmanager",
	"sheets",
	"speech",
	"storage",
}

// Validate validates the configuration settings.
func (c *Config) Validate() error {
	supportedAuthnMethods := []string{
		AuthenticationMethodNone,
		AuthenticationMethodKeyFile,
		AuthenticationMethodKeyJSON,
	}

	for name, creds := range c.Credentials {
		if creds.Authentication == "" {
			return fmt.Errorf("%w: credentials %s", errNoAuthenticationMethod, name)
		}

		if !slices.Contains(supportedAuthnMethods, creds.Authentication) {
			return fmt.Errorf("%w: %s uses %s", errUnknownAuthenticationMethod, name, creds.Authentication)
		}

		if creds.Authentication == AuthenticationMethodKeyFile && creds.KeyFile.Path == "" {
			return fmt.Errorf("%w: credentials %s", errNoKeyFile, name)
		}

		if creds.Authentication == AuthenticationMethodKeyJSON && creds.KeyJSON == "" {
			return fmt.Errorf("%w: credentials %s", errNoKeyJSON, name)
		}
	}

	for svc, svcConf := range c.Services {
		if !slices.Contains(SupportedServices, svc) {
			return fmt.Errorf("%w: %s", errUnknownService, svc)
		}

		if svcConf.UseCredentials == "" {
			continue
		}

		if _, ok := c.Credentials[svcConf.UseCredentials]; !ok {
			return fmt.Errorf("%w: service %s refers to %s", errUnknownNamedCredentials, svc, svcConf.UseCredentials)
		}
	}

	return nil
}
