// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	gscheduler "cloud.google.com/go/scheduler/apiv1"
	"cloud.google.com/go/scheduler/apiv1/schedulerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
)

// fakeSchedulerServer is an in-process Cloud Scheduler server backed by a job
// map.
type fakeSchedulerServer struct {
	schedulerpb.UnimplementedCloudSchedulerServer

	mu          sync.Mutex
	jobs        map[string]*schedulerpb.Job
	createErr   error
	createCalls int
	updateCalls int
}

func newFakeSchedulerServer() *fakeSchedulerServer {
	return &fakeSchedulerServer{
		jobs: make(map[string]*schedulerpb.Job),
	}
}

func (s *fakeSchedulerServer) CreateJob(_ context.Context, req *schedulerpb.CreateJobRequest) (*schedulerpb.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++

	if s.createErr != nil {
		return nil, s.createErr
	}

	if _, exists := s.jobs[req.Job.Name]; exists {
		return nil, status.Error(codes.AlreadyExists, "job already exists")
	}

	s.jobs[req.Job.Name] = req.Job

	return req.Job, nil
}

func (s *fakeSchedulerServer) UpdateJob(_ context.Context, req *schedulerpb.UpdateJobRequest) (*schedulerpb.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCalls++
	s.jobs[req.Job.Name] = req.Job

	return req.Job, nil
}

// newFakeClient creates a new [Client] talking to the given fake server over
// an in-process connection.
func newFakeClient(t *testing.T, fake schedulerpb.CloudSchedulerServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	schedulerpb.RegisterCloudSchedulerServer(srv, fake)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to create connection: %s", err)
	}

	c, err := gscheduler.NewCloudSchedulerClient(context.Background(), option.WithGRPCConn(conn))
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}
	t.Cleanup(func() { c.Close() })

	conf := &credentials.Config{
		ProjectID: "demo",
		Location:  "europe-west1",
	}

	return &Client{conf: conf, client: c}
}

func TestJobProtoDefaults(t *testing.T) {
	job := Job{
		Name:     "cleanup",
		Schedule: "*/5 * * * *",
		URI:      "https://example.org/cleanup",
	}

	proto, err := job.proto("projects/demo/locations/europe-west1")
	if err != nil {
		t.Fatalf("failed to build job proto: %s", err)
	}

	want := "projects/demo/locations/europe-west1/jobs/cleanup"
	if proto.Name != want {
		t.Fatalf("got job name %q, want %q", proto.Name, want)
	}

	if proto.TimeZone != DefaultTimeZone {
		t.Fatalf("got time zone %q, want %q", proto.TimeZone, DefaultTimeZone)
	}

	target := proto.GetHttpTarget()
	if target == nil {
		t.Fatalf("job proto has no HTTP target")
	}

	if target.HttpMethod != schedulerpb.HttpMethod_POST {
		t.Fatalf("got HTTP method %v, want POST", target.HttpMethod)
	}
}

func TestJobProtoUnsupportedMethod(t *testing.T) {
	job := Job{
		Name:     "cleanup",
		Schedule: "*/5 * * * *",
		URI:      "https://example.org/cleanup",
		Method:   "TRACE",
	}

	_, err := job.proto("projects/demo/locations/europe-west1")
	if !errors.Is(err, ErrUnsupportedHTTPMethod) {
		t.Fatalf("got error %v, want ErrUnsupportedHTTPMethod", err)
	}
}

func TestJobProtoLowercaseMethod(t *testing.T) {
	job := Job{
		Name:     "cleanup",
		Schedule: "*/5 * * * *",
		URI:      "https://example.org/cleanup",
		Method:   "get",
	}

	proto, err := job.proto("projects/demo/locations/europe-west1")
	if err != nil {
		t.Fatalf("failed to build job proto: %s", err)
	}

	if proto.GetHttpTarget().HttpMethod != schedulerpb.HttpMethod_GET {
		t.Fatalf("lowercase method was not normalized")
	}
}

func TestPutJobCreatesNewJob(t *testing.T) {
	fake := newFakeSchedulerServer()
	client := newFakeClient(t, fake)

	job := Job{
		Name:     "cleanup",
		Schedule: "*/5 * * * *",
		URI:      "https://example.org/cleanup",
	}

	out, err := client.PutJob(context.Background(), job)
	if err != nil {
		t.Fatalf("failed to put job: %s", err)
	}

	want := "projects/demo/locations/europe-west1/jobs/cleanup"
	if out.Name != want {
		t.Fatalf("got job name %q, want %q", out.Name, want)
	}

	if fake.updateCalls != 0 {
		t.Fatalf("got %d job updates for a new job, want 0", fake.updateCalls)
	}
}

func TestPutJobUpdatesExistingJob(t *testing.T) {
	fake := newFakeSchedulerServer()
	client := newFakeClient(t, fake)

	job := Job{
		Name:     "cleanup",
		Schedule: "*/5 * * * *",
		URI:      "https://example.org/cleanup",
	}

	if _, err := client.PutJob(context.Background(), job); err != nil {
		t.Fatalf("failed to put job: %s", err)
	}

	job.Schedule = "0 * * * *"
	out, err := client.PutJob(context.Background(), job)
	if err != nil {
		t.Fatalf("failed to put existing job: %s", err)
	}

	if out.Schedule != job.Schedule {
		t.Fatalf("got schedule %q, want %q", out.Schedule, job.Schedule)
	}

	if fake.updateCalls != 1 {
		t.Fatalf("got %d job updates, want 1", fake.updateCalls)
	}
}

func TestPutJobOtherErrorsShortCircuit(t *testing.T) {
	fake := newFakeSchedulerServer()
	fake.createErr = status.Error(codes.PermissionDenied, "denied")
	client := newFakeClient(t, fake)

	job := Job{
		Name:     "cleanup",
		Schedule: "*/5 * * * *",
		URI:      "https://example.org/cleanup",
	}

	_, err := client.PutJob(context.Background(), job)
	if !errors.Is(err, gcperr.ErrPermissionDenied) {
		t.Fatalf("got error %v, want ErrPermissionDenied", err)
	}

	if fake.updateCalls != 0 {
		t.Fatalf("job update was attempted on a non-AlreadyExists error")
	}
}
