// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package secretmanager provides a thin client for the Google Secret Manager
// service.
package secretmanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sm "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "secretmanager"

// LatestVersion addresses the most recent enabled version of a secret.
const LatestVersion = "latest"

// Client is a thin wrapper over the Secret Manager SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *sm.Client
}

// New creates a new Secret Manager client. When conf is nil, a default config
// with Application Default Credentials is used.
func New(ctx context.Context, conf *credentials.Config) (*Client, error) {
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

	c, err := sm.NewClient(ctx, conf.ClientOptions()...)
	if err != nil {
		return nil, gcperr.Translate(err)
	}

	client := &Client{
		conf:   conf,
		logger: conf.Logger(),
		client: c,
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

// secretPath returns the full resource name of a secret.
func secretPath(project string, name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", project, name)
}

// versionPath returns the full resource name of a secret version.
func versionPath(project string, name string, version string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, name, version)
}

// GetSecret returns the payload of the latest version of the secret.
func (c *Client) GetSecret(ctx context.Context, name string) ([]byte, error) {
	return c.GetSecretVersion(ctx, name, LatestVersion)
}

// GetSecretVersion returns the payload of the given version of the secret.
func (c *Client) GetSecretVersion(ctx context.Context, name string, version string) ([]byte, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: versionPath(c.conf.ProjectID, name, version),
	}

	resp, err := c.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return nil, c.wrap("GetSecretVersion", err)
	}

	metrics.ObserveCall(serviceName, "GetSecretVersion", nil)

	return resp.GetPayload().GetData(), nil
}

// SetSecret stores the payload as a new version of the secret. The secret is
// created first, if it does not exist yet.
func (c *Client) SetSecret(ctx context.Context, name string, payload []byte) error {
	createReq := &secretmanagerpb.CreateSecretRequest{
		Parent:   fmt.Sprintf("projects/%s", c.conf.ProjectID),
		SecretId: name,
		Secret: &secretmanagerpb.Secret{
			Replication: &secretmanagerpb.Replication{
				Replication: &secretmanagerpb.Replication_Automatic_{
					Automatic: &secretmanagerpb.Replication_Automatic{},
				},
			},
		},
	}

	_, err := c.client.CreateSecret(ctx, createReq)
	if err != nil && !errors.Is(gcperr.Translate(err), gcperr.ErrAlreadyExists) {
		return c.wrap("SetSecret", err)
	}

	addReq := &secretmanagerpb.AddSecretVersionRequest{
		Parent: secretPath(c.conf.ProjectID, name),
		Payload: &secretmanagerpb.SecretPayload{
			Data: payload,
		},
	}

	_, err = c.client.AddSecretVersion(ctx, addReq)

	return c.wrap("SetSecret", err)
}

// ListSecrets returns the names of the secrets in the configured project.
func (c *Client) ListSecrets(ctx context.Context) ([]string, error) {
	req := &secretmanagerpb.ListSecretsRequest{
		Parent: fmt.Sprintf("projects/%s", c.conf.ProjectID),
	}

	items := make([]string, 0)
	iter := c.client.ListSecrets(ctx, req)
	for {
		secret, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListSecrets", err)
		}

		items = append(items, secret.GetName())
	}

	metrics.ObserveCall(serviceName, "ListSecrets", nil)

	return items, nil
}

// DeleteSecret deletes the secret along with all of its versions.
func (c *Client) DeleteSecret(ctx context.Context, name string) error {
	req := &secretmanagerpb.DeleteSecretRequest{
		Name: secretPath(c.conf.ProjectID, name),
	}

	err := c.client.DeleteSecret(ctx, req)

	return c.wrap("DeleteSecret", err)
}

// DestroyVersion irreversibly destroys the payload of the given secret
// version.
func (c *Client) DestroyVersion(ctx context.Context, name string, version string) error {
	req := &secretmanagerpb.DestroySecretVersionRequest{
		Name: versionPath(c.conf.ProjectID, name, version),
	}

	_, err := c.client.DestroySecretVersion(ctx, req)

	return c.wrap("DestroyVersion", err)
}
