// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package cloudbuild provides a thin client for the Google Cloud Build
// service.
package cloudbuild

import (
	"context"
	"errors"
	"log/slog"

	gcb "cloud.google.com/go/cloudbuild/apiv1/v2"
	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "cloudbuild"

// Client is a thin wrapper over the Cloud Build SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *gcb.Client
}

// New creates a new Cloud Build client. When conf is nil, a default config
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

	c, err := gcb.NewClient(ctx, conf.ClientOptions()...)
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

// CreateTrigger creates a new build trigger.
func (c *Client) CreateTrigger(ctx context.Context, trigger *cloudbuildpb.BuildTrigger) (*cloudbuildpb.BuildTrigger, error) {
	req := &cloudbuildpb.CreateBuildTriggerRequest{
		ProjectId: c.conf.ProjectID,
		Trigger:   trigger,
	}

	out, err := c.client.CreateBuildTrigger(ctx, req)

	return out, c.wrap("CreateTrigger", err)
}

// DeleteTrigger deletes the build trigger with the given id.
func (c *Client) DeleteTrigger(ctx context.Context, triggerID string) error {
	req := &cloudbuildpb.DeleteBuildTriggerRequest{
		ProjectId: c.conf.ProjectID,
		TriggerId: triggerID,
	}

	err := c.client.DeleteBuildTrigger(ctx, req)

	return c.wrap("DeleteTrigger", err)
}

// ListTriggers returns the build triggers of the configured project.
func (c *Client) ListTriggers(ctx context.Context) ([]*cloudbuildpb.BuildTrigger, error) {
	req := &cloudbuildpb.ListBuildTriggersRequest{
		ProjectId: c.conf.ProjectID,
	}

	items := make([]*cloudbuildpb.BuildTrigger, 0)
	iter := c.client.ListBuildTriggers(ctx, req)
	for {
		trigger, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListTriggers", err)
		}

		items = append(items, trigger)
	}

	metrics.ObserveCall(serviceName, "ListTriggers", nil)

	return items, nil
}

// RunTrigger runs the build trigger against the given branch and blocks until
// the build finishes. Returns the finished build.
func (c *Client) RunTrigger(ctx context.Context, triggerID string, branch string) (*cloudbuildpb.Build, error) {
	req := &cloudbuildpb.RunBuildTriggerRequest{
		ProjectId: c.conf.ProjectID,
		TriggerId: triggerID,
		Source: &cloudbuildpb.RepoSource{
			Revision: &cloudbuildpb.RepoSource_BranchName{BranchName: branch},
		},
	}

	op, err := c.client.RunBuildTrigger(ctx, req)
	if err != nil {
		return nil, c.wrap("RunTrigger", err)
	}

	build, err := op.Wait(ctx)

	return build, c.wrap("RunTrigger", err)
}

// GetBuild returns the build with the given id.
func (c *Client) GetBuild(ctx context.Context, buildID string) (*cloudbuildpb.Build, error) {
	req := &cloudbuildpb.GetBuildRequest{
		ProjectId: c.conf.ProjectID,
		Id:        buildID,
	}

	out, err := c.client.GetBuild(ctx, req)

	return out, c.wrap("GetBuild", err)
}
