// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package scheduler provides a thin client for the Google Cloud Scheduler
// service.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gscheduler "cloud.google.com/go/scheduler/apiv1"
	"cloud.google.com/go/scheduler/apiv1/schedulerpb"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "scheduler"

// DefaultTimeZone is the time zone used for job schedules when none is
// given.
const DefaultTimeZone = "Etc/UTC"

// ErrUnsupportedHTTPMethod is an error, which is returned when a job uses an
// HTTP method not supported by Cloud Scheduler.
var ErrUnsupportedHTTPMethod = errors.New("unsupported HTTP method")

// httpMethods maps HTTP method names to their vendor representation.
var httpMethods = map[string]schedulerpb.HttpMethod{
	"GET":    schedulerpb.HttpMethod_GET,
	"POST":   schedulerpb.HttpMethod_POST,
	"PUT":    schedulerpb.HttpMethod_PUT,
	"DELETE": schedulerpb.HttpMethod_DELETE,
	"PATCH":  schedulerpb.HttpMethod_PATCH,
	"HEAD":   schedulerpb.HttpMethod_HEAD,
}

// Job describes a cron job with an HTTP target.
type Job struct {
	// Name is the short job name, unique within the location.
	Name string

	// Schedule is the job schedule in cron format, e.g. "*/5 * * * *".
	Schedule string

	// TimeZone is the time zone of the schedule. Defaults to
	// [DefaultTimeZone].
	TimeZone string

	// URI is the HTTP endpoint invoked by the job.
	URI string

	// Method is the HTTP method to use. Defaults to POST.
	Method string

	// Body is the optional request body.
	Body []byte

	// Headers are the optional request headers.
	Headers map[string]string
}

// proto builds the vendor job representation, named under the given parent.
func (j Job) proto(parent string) (*schedulerpb.Job, error) {
	timeZone := j.TimeZone
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}

	method := strings.ToUpper(j.Method)
	if method == "" {
		method = "POST"
	}

	httpMethod, ok := httpMethods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHTTPMethod, j.Method)
	}

	job := &schedulerpb.Job{
		Name:     fmt.Sprintf("%s/jobs/%s", parent, j.Name),
		Schedule: j.Schedule,
		TimeZone: timeZone,
		Target: &schedulerpb.Job_HttpTarget{
			HttpTarget: &schedulerpb.HttpTarget{
				Uri:        j.URI,
				HttpMethod: httpMethod,
				Body:       j.Body,
				Headers:    j.Headers,
			},
		},
	}

	return job, nil
}

// Client is a thin wrapper over the Cloud Scheduler SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *gscheduler.CloudSchedulerClient
}

// New creates a new Cloud Scheduler client. When conf is nil, a default
// config with Application Default Credentials is used. The config must carry
// a location.
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

	if err := conf.RequireLocation(); err != nil {
		return nil, err
	}

	c, err := gscheduler.NewCloudSchedulerClient(ctx, conf.ClientOptions()...)
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

// parent returns the full resource name of the configured location.
func (c *Client) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.conf.ProjectID, c.conf.Location)
}

// jobName returns the full resource name of a job.
func (c *Client) jobName(name string) string {
	return fmt.Sprintf("%s/jobs/%s", c.parent(), name)
}

// PutJob creates the given job, or updates it when a job with the same name
// already exists.
func (c *Client) PutJob(ctx context.Context, job Job) (*schedulerpb.Job, error) {
	proto, err := job.proto(c.parent())
	if err != nil {
		return nil, err
	}

	req := &schedulerpb.CreateJobRequest{
		Parent: c.parent(),
		Job:    proto,
	}

	out, err := c.client.CreateJob(ctx, req)
	if err == nil {
		metrics.ObserveCall(serviceName, "PutJob", nil)

		return out, nil
	}

	if !errors.Is(gcperr.Translate(err), gcperr.ErrAlreadyExists) {
		return nil, c.wrap("PutJob", err)
	}

	updateReq := &schedulerpb.UpdateJobRequest{
		Job: proto,
	}

	out, err = c.client.UpdateJob(ctx, updateReq)

	return out, c.wrap("PutJob", err)
}

// GetJob returns the job with the given name.
func (c *Client) GetJob(ctx context.Context, name string) (*schedulerpb.Job, error) {
	req := &schedulerpb.GetJobRequest{
		Name: c.jobName(name),
	}

	out, err := c.client.GetJob(ctx, req)

	return out, c.wrap("GetJob", err)
}

// DeleteJob deletes the job with the given name.
func (c *Client) DeleteJob(ctx context.Context, name string) error {
	req := &schedulerpb.DeleteJobRequest{
		Name: c.jobName(name),
	}

	err := c.client.DeleteJob(ctx, req)

	return c.wrap("DeleteJob", err)
}

// ListJobs returns the jobs in the configured location.
func (c *Client) ListJobs(ctx context.Context) ([]*schedulerpb.Job, error) {
	req := &schedulerpb.ListJobsRequest{
		Parent: c.parent(),
	}

	items := make([]*schedulerpb.Job, 0)
	iter := c.client.ListJobs(ctx, req)
	for {
		job, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListJobs", err)
		}

		items = append(items, job)
	}

	metrics.ObserveCall(serviceName, "ListJobs", nil)

	return items, nil
}

// PauseJob pauses the job with the given name.
func (c *Client) PauseJob(ctx context.Context, name string) error {
	req := &schedulerpb.PauseJobRequest{
		Name: c.jobName(name),
	}

	_, err := c.client.PauseJob(ctx, req)

	return c.wrap("PauseJob", err)
}

// ResumeJob resumes the paused job with the given name.
func (c *Client) ResumeJob(ctx context.Context, name string) error {
	req := &schedulerpb.ResumeJobRequest{
		Name: c.jobName(name),
	}

	_, err := c.client.ResumeJob(ctx, req)

	return c.wrap("ResumeJob", err)
}
