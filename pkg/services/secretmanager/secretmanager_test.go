// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package secretmanager

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	sm "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
)

// fakeSecretManagerServer is an in-process Secret Manager server backed by a
// secret set.
type fakeSecretManagerServer struct {
	secretmanagerpb.UnimplementedSecretManagerServiceServer

	mu        sync.Mutex
	secrets   map[string]bool
	createErr error
	addCalls  int
}

func newFakeSecretManagerServer() *fakeSecretManagerServer {
	return &fakeSecretManagerServer{
		secrets: make(map[string]bool),
	}
}

func (s *fakeSecretManagerServer) CreateSecret(_ context.Context, req *secretmanagerpb.CreateSecretRequest) (*secretmanagerpb.Secret, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}

	name := req.Parent + "/secrets/" + req.SecretId
	if s.secrets[name] {
		return nil, status.Error(codes.AlreadyExists, "secret already exists")
	}

	s.secrets[name] = true

	return &secretmanagerpb.Secret{Name: name}, nil
}

func (s *fakeSecretManagerServer) AddSecretVersion(_ context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.secrets[req.Parent] {
		return nil, status.Error(codes.NotFound, "secret not found")
	}

	s.addCalls++

	return &secretmanagerpb.SecretVersion{Name: req.Parent + "/versions/1"}, nil
}

// newFakeClient creates a new [Client] talking to the given fake server over
// an in-process connection.
func newFakeClient(t *testing.T, fake secretmanagerpb.SecretManagerServiceServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	secretmanagerpb.RegisterSecretManagerServiceServer(srv, fake)
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

	c, err := sm.NewClient(context.Background(), option.WithGRPCConn(conn))
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}
	t.Cleanup(func() { c.Close() })

	conf := &credentials.Config{
		ProjectID: "demo",
	}

	return &Client{conf: conf, client: c}
}

func TestSecretPath(t *testing.T) {
	got := secretPath("demo", "db-password")
	want := "projects/demo/secrets/db-password"

	if got != want {
		t.Fatalf("wanted %s got %s", want, got)
	}
}

func TestVersionPath(t *testing.T) {
	got := versionPath("demo", "db-password", "latest")
	want := "projects/demo/secrets/db-password/versions/latest"

	if got != want {
		t.Fatalf("wanted %s got %s", want, got)
	}
}

func TestSetSecretCreatesMissingSecret(t *testing.T) {
	fake := newFakeSecretManagerServer()
	client := newFakeClient(t, fake)

	if err := client.SetSecret(context.Background(), "db-password", []byte("hunter2")); err != nil {
		t.Fatalf("failed to set secret: %s", err)
	}

	if !fake.secrets["projects/demo/secrets/db-password"] {
		t.Fatalf("secret was not created")
	}

	if fake.addCalls != 1 {
		t.Fatalf("got %d added versions, want 1", fake.addCalls)
	}
}

func TestSetSecretExistingSecret(t *testing.T) {
	fake := newFakeSecretManagerServer()
	fake.secrets["projects/demo/secrets/db-password"] = true
	client := newFakeClient(t, fake)

	if err := client.SetSecret(context.Background(), "db-password", []byte("hunter2")); err != nil {
		t.Fatalf("failed to set existing secret: %s", err)
	}

	if fake.addCalls != 1 {
		t.Fatalf("got %d added versions, want 1", fake.addCalls)
	}
}

func TestSetSecretOtherErrorsShortCircuit(t *testing.T) {
	fake := newFakeSecretManagerServer()
	fake.createErr = status.Error(codes.PermissionDenied, "denied")
	client := newFakeClient(t, fake)

	err := client.SetSecret(context.Background(), "db-password", []byte("hunter2"))
	if !errors.Is(err, gcperr.ErrPermissionDenied) {
		t.Fatalf("got error %v, want ErrPermissionDenied", err)
	}

	if fake.addCalls != 0 {
		t.Fatalf("version was added on a non-AlreadyExists error")
	}
}
