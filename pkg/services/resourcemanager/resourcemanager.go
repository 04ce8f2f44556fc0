// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package resourcemanager provides a thin client for the Google Cloud
// Resource Manager service.
package resourcemanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"cloud.google.com/go/iam/apiv1/iampb"
	grm "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "resourcemanager"

// Client is a thin wrapper over the Resource Manager projects SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *grm.ProjectsClient
}

// New creates a new Resource Manager client. When conf is nil, a default
// config with Application Default Credentials is used.
func New(ctx context.Context, conf *credentials.Config) (*Client, error) {
	if conf == nil {
		var err error
		conf, err = credentials.DefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	c, err := grm.NewProjectsRESTClient(ctx, conf.ClientOptions()...)
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

// GetProject returns the project with the given id.
func (c *Client) GetProject(ctx context.Context, projectID string) (*resourcemanagerpb.Project, error) {
	req := &resourcemanagerpb.GetProjectRequest{
		Name: ProjectFQN(projectID),
	}

	out, err := c.client.GetProject(ctx, req)

	return out, c.wrap("GetProject", err)
}

// SearchProjects returns the projects visible to the caller matching the
// given query. An empty query returns all visible projects.
func (c *Client) SearchProjects(ctx context.Context, query string) ([]*resourcemanagerpb.Project, error) {
	req := &resourcemanagerpb.SearchProjectsRequest{
		Query: query,
	}

	items := make([]*resourcemanagerpb.Project, 0)
	iter := c.client.SearchProjects(ctx, req)
	for {
		project, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("SearchProjects", err)
		}

		items = append(items, project)
	}

	metrics.ObserveCall(serviceName, "SearchProjects", nil)

	return items, nil
}

// GetIamPolicy returns the IAM policy of the given project.
func (c *Client) GetIamPolicy(ctx context.Context, projectID string) (*iampb.Policy, error) {
	req := &iampb.GetIamPolicyRequest{
		Resource: ProjectFQN(projectID),
	}

	out, err := c.client.GetIamPolicy(ctx, req)

	return out, c.wrap("GetIamPolicy", err)
}

// AddMember grants the given role to the member on the project. The member
// must be given in IAM format, e.g. "serviceAccount:sa@demo.iam.gserviceaccount.com".
func (c *Client) AddMember(ctx context.Context, projectID string, member string, role string) (*iampb.Policy, error) {
	policy, err := c.GetIamPolicy(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var binding *iampb.Binding
	for _, b := range policy.Bindings {
		if b.Role == role {
			binding = b

			break
		}
	}

	if binding == nil {
		binding = &iampb.Binding{Role: role}
		policy.Bindings = append(policy.Bindings, binding)
	}

	if !slices.Contains(binding.Members, member) {
		binding.Members = append(binding.Members, member)
	}

	return c.setIamPolicy(ctx, "AddMember", projectID, policy)
}

// RemoveMember revokes the given role from the member on the project.
func (c *Client) RemoveMember(ctx context.Context, projectID string, member string, role string) (*iampb.Policy, error) {
	policy, err := c.GetIamPolicy(ctx, projectID)
	if err != nil {
		return nil, err
	}

	bindings := make([]*iampb.Binding, 0, len(policy.Bindings))
	for _, b := range policy.Bindings {
		if b.Role == role {
			b.Members = slices.DeleteFunc(b.Members, func(m string) bool {
				return m == member
			})
		}

		if len(b.Members) > 0 {
			bindings = append(bindings, b)
		}
	}
	policy.Bindings = bindings

	return c.setIamPolicy(ctx, "RemoveMember", projectID, policy)
}

// setIamPolicy replaces the IAM policy of the given project.
func (c *Client) setIamPolicy(ctx context.Context, op string, projectID string, policy *iampb.Policy) (*iampb.Policy, error) {
	req := &iampb.SetIamPolicyRequest{
		Resource: ProjectFQN(projectID),
		Policy:   policy,
	}

	out, err := c.client.SetIamPolicy(ctx, req)

	return out, c.wrap(op, err)
}

// ProjectFQN returns the fully-qualified name of a project. The project may
// be given either as a project id, or as a fully-qualified name, in which
// case it is returned as-is.
func ProjectFQN(project string) string {
	if strings.HasPrefix(project, "projects/") {
		return project
	}

	return fmt.Sprintf("projects/%s", project)
}
