// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/core/config"
	"github.com/gcpkit/gcpkit/pkg/credentials"
)

// configKey is the context key under which the parsed [config.Config] is
// stored.
type configKey struct{}

// errNoConfig is an error, which is returned when the context does not carry
// a parsed configuration.
var errNoConfig = errors.New("no configuration found in context")

// errUnknownNamedCredentials is an error, which is returned when a service
// refers to named credentials, which are not defined.
var errUnknownNamedCredentials = errors.New("unknown named credentials")

// na is displayed in table cells for which there is no value.
const na = "N/A"

// getConfig returns the parsed configuration from the context.
func getConfig(ctx *cli.Context) (*config.Config, error) {
	conf, ok := ctx.Context.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errNoConfig
	}

	return conf, nil
}

// newTableWriter creates a new table with the given headers, which writes to
// the given writer.
func newTableWriter(w io.Writer, headers []string) *tablewriter.Table {
	row := make([]any, 0, len(headers))
	for _, header := range headers {
		row = append(row, header)
	}

	table := tablewriter.NewWriter(w)
	table.Header(row...)

	return table
}

// credentialSpec builds the [credentials.Spec] for the given named
// credentials from the configuration. An empty name yields an empty spec,
// which resolves to Application Default Credentials.
func credentialSpec(conf *config.Config, name string) (credentials.Spec, error) {
	if name == "" {
		return credentials.Spec{}, nil
	}

	creds, ok := conf.Credentials[name]
	if !ok {
		return credentials.Spec{}, fmt.Errorf("%w: %s", errUnknownNamedCredentials, name)
	}

	spec := credentials.Spec{
		Impersonate: creds.Impersonate.Target,
		Delegates:   creds.Impersonate.Delegates,
		Scopes:      creds.Scopes,
	}

	switch creds.Authentication {
	case config.AuthenticationMethodKeyFile:
		spec.KeyFile = creds.KeyFile.Path
	case config.AuthenticationMethodKeyJSON:
		spec.KeyJSON = []byte(creds.KeyJSON)
	}

	return spec, nil
}

// newServiceConfig resolves the credentials for the given service and
// produces the [credentials.Config] to create its client with. Per-service
// settings from the configuration take precedence over the global defaults.
func newServiceConfig(ctx *cli.Context, service string) (*credentials.Config, error) {
	conf, err := getConfig(ctx)
	if err != nil {
		return nil, err
	}

	svcConf := conf.Services[service]

	spec, err := credentialSpec(conf, svcConf.UseCredentials)
	if err != nil {
		return nil, err
	}

	opts := make([]credentials.Option, 0)

	project := conf.Project
	if svcConf.Project != "" {
		project = svcConf.Project
	}
	if project != "" {
		opts = append(opts, credentials.WithProjectID(project))
	}

	location := conf.Location
	if svcConf.Location != "" {
		location = svcConf.Location
	}
	if location != "" {
		opts = append(opts, credentials.WithLocation(location))
	}

	if conf.UserAgent != "" {
		opts = append(opts, credentials.WithUserAgent(conf.UserAgent))
	}

	return credentials.DefaultResolver.Configure(ctx.Context, spec, opts...)
}
