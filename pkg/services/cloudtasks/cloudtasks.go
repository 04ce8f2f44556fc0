// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package cloudtasks provides a thin client for the Google Cloud Tasks
// service.
package cloudtasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "cloudtasks"

// ErrUnsupportedHTTPMethod is an error, which is returned when a task uses an
// HTTP method not supported by Cloud Tasks.
var ErrUnsupportedHTTPMethod = errors.New("unsupported HTTP method")

// ErrNoTaskName is an error, which is returned when an operation requires an
// explicit task name, but none was given.
var ErrNoTaskName = fmt.Errorf("%w: no task name specified", gcperr.ErrInvalidArgument)

// httpMethods maps HTTP method names to their vendor representation.
var httpMethods = map[string]cloudtaskspb.HttpMethod{
	"GET":    cloudtaskspb.HttpMethod_GET,
	"POST":   cloudtaskspb.HttpMethod_POST,
	"PUT":    cloudtaskspb.HttpMethod_PUT,
	"DELETE": cloudtaskspb.HttpMethod_DELETE,
	"PATCH":  cloudtaskspb.HttpMethod_PATCH,
	"HEAD":   cloudtaskspb.HttpMethod_HEAD,
}

// Task describes a task with an HTTP target.
type Task struct {
	// Queue is the short name of the queue to push the task to.
	Queue string

	// Name is the optional short task name. When empty a unique name is
	// generated.
	Name string

	// URI is the HTTP endpoint invoked when the task is dispatched.
	URI string

	// Method is the HTTP method to use. Defaults to POST.
	Method string

	// Body is the optional request body.
	Body []byte

	// Headers are the optional request headers.
	Headers map[string]string

	// ScheduleAt optionally delays the task until the given time.
	ScheduleAt time.Time
}

// Client is a thin wrapper over the Cloud Tasks SDK client.
type Client struct {
	conf            *credentials.Config
	logger          *slog.Logger
	client          *gtasks.Client
	autoCreateQueue bool
}

// Option is a function which configures the [Client].
type Option func(c *Client)

// WithAutoCreateQueue configures the [Client] to create missing queues on
// demand when pushing tasks.
func WithAutoCreateQueue() Option {
	return func(c *Client) {
		c.autoCreateQueue = true
	}
}

// New creates a new Cloud Tasks client. When conf is nil, a default config
// with Application Default Credentials is used. The config must carry a
// location.
func New(ctx context.Context, conf *credentials.Config, opts ...Option) (*Client, error) {
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

	c, err := gtasks.NewClient(ctx, conf.ClientOptions()...)
	if err != nil {
		return nil, gcperr.Translate(err)
	}

	client := &Client{
		conf:   conf,
		logger: conf.Logger(),
		client: c,
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

// queuePath returns the full resource name of a queue.
func (c *Client) queuePath(queue string) string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", c.conf.ProjectID, c.conf.Location, queue)
}

// taskProto builds the vendor task representation.
func (c *Client) taskProto(task Task) (*cloudtaskspb.Task, error) {
	method := strings.ToUpper(task.Method)
	if method == "" {
		method = "POST"
	}

	httpMethod, ok := httpMethods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHTTPMethod, task.Method)
	}

	proto := &cloudtaskspb.Task{
		Name: c.taskName(task.Queue, task.Name),
		MessageType: &cloudtaskspb.Task_HttpRequest{
			HttpRequest: &cloudtaskspb.HttpRequest{
				Url:        task.URI,
				HttpMethod: httpMethod,
				Body:       task.Body,
				Headers:    task.Headers,
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		proto.ScheduleTime = timestamppb.New(task.ScheduleAt)
	}

	return proto, nil
}

// taskName returns the full resource name of a task. When name is empty a
// unique name is generated.
func (c *Client) taskName(queue string, name string) string {
	if name == "" {
		name = uuid.NewString()
	}

	return fmt.Sprintf("%s/tasks/%s", c.queuePath(queue), name)
}

// Push creates the given task in its queue. When the client was created with
// [WithAutoCreateQueue] and the queue does not exist, the queue is created
// and the push is retried once.
func (c *Client) Push(ctx context.Context, task Task) (*cloudtaskspb.Task, error) {
	proto, err := c.taskProto(task)
	if err != nil {
		return nil, err
	}

	req := &cloudtaskspb.CreateTaskRequest{
		Parent: c.queuePath(task.Queue),
		Task:   proto,
	}

	out, err := c.client.CreateTask(ctx, req)
	if err == nil {
		metrics.ObserveCall(serviceName, "Push", nil)

		return out, nil
	}

	if !c.autoCreateQueue || !errors.Is(gcperr.Translate(err), gcperr.ErrNotFound) {
		return nil, c.wrap("Push", err)
	}

	if _, err := c.CreateQueue(ctx, task.Queue); err != nil {
		return nil, err
	}

	out, err = c.client.CreateTask(ctx, req)

	return out, c.wrap("Push", err)
}

// GetTask returns the task with the given name from the queue.
func (c *Client) GetTask(ctx context.Context, queue string, name string) (*cloudtaskspb.Task, error) {
	if name == "" {
		return nil, ErrNoTaskName
	}

	req := &cloudtaskspb.GetTaskRequest{
		Name: c.taskName(queue, name),
	}

	out, err := c.client.GetTask(ctx, req)

	return out, c.wrap("GetTask", err)
}

// DeleteTask deletes the task with the given name from the queue.
func (c *Client) DeleteTask(ctx context.Context, queue string, name string) error {
	if name == "" {
		return ErrNoTaskName
	}

	req := &cloudtaskspb.DeleteTaskRequest{
		Name: c.taskName(queue, name),
	}

	err := c.client.DeleteTask(ctx, req)

	return c.wrap("DeleteTask", err)
}

// ListTasks returns the tasks of the given queue.
func (c *Client) ListTasks(ctx context.Context, queue string) ([]*cloudtaskspb.Task, error) {
	req := &cloudtaskspb.ListTasksRequest{
		Parent: c.queuePath(queue),
	}

	items := make([]*cloudtaskspb.Task, 0)
	iter := c.client.ListTasks(ctx, req)
	for {
		task, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListTasks", err)
		}

		items = append(items, task)
	}

	metrics.ObserveCall(serviceName, "ListTasks", nil)

	return items, nil
}

// CreateQueue creates a new queue with the given name in the configured
// location.
func (c *Client) CreateQueue(ctx context.Context, queue string) (*cloudtaskspb.Queue, error) {
	req := &cloudtaskspb.CreateQueueRequest{
		Parent: fmt.Sprintf("projects/%s/locations/%s", c.conf.ProjectID, c.conf.Location),
		Queue: &cloudtaskspb.Queue{
			Name: c.queuePath(queue),
		},
	}

	out, err := c.client.CreateQueue(ctx, req)

	return out, c.wrap("CreateQueue", err)
}
