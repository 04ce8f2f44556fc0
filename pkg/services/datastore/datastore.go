// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package datastore provides a thin client for the Google Cloud Datastore
// service, along with a typed document layer over entity kinds.
package datastore

import (
	"context"
	"log/slog"
	"os"

	ds "cloud.google.com/go/datastore"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "datastore"

// namespaceEnvVar is the environment variable providing the default
// Datastore namespace.
const namespaceEnvVar = "GCP_DATASTORE_NAMESPACE"

// Client is a thin wrapper over the Datastore SDK client.
type Client struct {
	conf      *credentials.Config
	logger    *slog.Logger
	client    *ds.Client
	namespace string
}

// ClientOption is a function which configures the [Client].
type ClientOption func(*Client)

// WithNamespace sets the Datastore namespace used for all keys and queries.
func WithNamespace(namespace string) ClientOption {
	return func(c *Client) {
		c.namespace = namespace
	}
}

// New creates a new Datastore client. When conf is nil, a default config with
// Application Default Credentials is used. The namespace defaults to the
// GCP_DATASTORE_NAMESPACE environment variable.
func New(ctx context.Context, conf *credentials.Config, opts ...ClientOption) (*Client, error) {
	if conf == nil {
		var err error
		conf, err = credentials.DefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := conf.RequireProject(); err != nil {
		return nil, err
	}

	c, err := ds.NewClient(ctx, conf.ProjectID, conf.ClientOptions()...)
	if err != nil {
		return nil, gcperr.Translate(err)
	}

	client := &Client{
		conf:      conf,
		logger:    conf.Logger(),
		client:    c,
		namespace: os.Getenv(namespaceEnvVar),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close closes the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

// wrap records the API call and translates the vendor error.
func (c *Client) wrap(op string, err error) error {
	metrics.ObserveCall(serviceName, op, err)

	return gcperr.Translate(err)
}
