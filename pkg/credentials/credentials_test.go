// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package credentials

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/oauth2/google"

	"github.com/gcpkit/gcpkit/pkg/gcperr"
)

func TestFingerprintIdenticalSpecs(t *testing.T) {
	a := Spec{KeyFile: "/etc/sa.json", Impersonate: "other@demo.iam.gserviceaccount.com"}
	b := Spec{KeyFile: "/etc/sa.json", Impersonate: "other@demo.iam.gserviceaccount.com"}

	if a.fingerprint() != b.fingerprint() {
		t.Fatalf("identical specs produced different fingerprints")
	}
}

func TestFingerprintDistinguishesImpersonation(t *testing.T) {
	a := Spec{KeyFile: "/etc/sa.json"}
	b := Spec{KeyFile: "/etc/sa.json", Impersonate: "other@demo.iam.gserviceaccount.com"}

	if a.fingerprint() == b.fingerprint() {
		t.Fatalf("impersonation target did not change the fingerprint")
	}
}

func TestFingerprintDistinguishesKeyData(t *testing.T) {
	a := Spec{KeyJSON: []byte(`{"client_email": "a@demo"}`)}
	b := Spec{KeyJSON: []byte(`{"client_email": "b@demo"}`)}

	if a.fingerprint() == b.fingerprint() {
		t.Fatalf("key data did not change the fingerprint")
	}
}

func TestResolveCachesCredentials(t *testing.T) {
	calls := 0
	resolver := NewResolver()
	resolver.detect = func(ctx context.Context, spec Spec) (*google.Credentials, error) {
		calls++

		return &google.Credentials{ProjectID: "demo"}, nil
	}

	ctx := context.Background()

	first, err := resolver.Resolve(ctx, Spec{})
	if err != nil {
		t.Fatalf("failed to resolve credentials: %s", err)
	}

	second, err := resolver.Resolve(ctx, Spec{})
	if err != nil {
		t.Fatalf("failed to resolve credentials twice: %s", err)
	}

	if first != second {
		t.Fatalf("second resolution did not return the cached credentials")
	}

	if calls != 1 {
		t.Fatalf("credentials were detected %d times, want 1", calls)
	}
}

func TestResolveDistinctSpecsNotShared(t *testing.T) {
	resolver := NewResolver()
	resolver.detect = func(ctx context.Context, spec Spec) (*google.Credentials, error) {
		return &google.Credentials{ProjectID: "demo"}, nil
	}

	ctx := context.Background()

	first, err := resolver.Resolve(ctx, Spec{KeyFile: "/etc/a.json"})
	if err != nil {
		t.Fatalf("failed to resolve credentials: %s", err)
	}

	second, err := resolver.Resolve(ctx, Spec{KeyFile: "/etc/b.json"})
	if err != nil {
		t.Fatalf("failed to resolve credentials: %s", err)
	}

	if first == second {
		t.Fatalf("distinct specs shared a cache entry")
	}
}

func TestResolveNoCredentialSource(t *testing.T) {
	resolver := NewResolver()
	resolver.detect = func(ctx context.Context, spec Spec) (*google.Credentials, error) {
		return nil, errors.New("could not find default credentials")
	}

	_, err := resolver.Resolve(context.Background(), Spec{})
	if !errors.Is(err, gcperr.ErrUnauthenticated) {
		t.Fatalf("got error %v, want ErrUnauthenticated", err)
	}
}

func TestResolveMissingKeyFile(t *testing.T) {
	resolver := NewResolver()

	_, err := resolver.Resolve(context.Background(), Spec{KeyFile: "/does/not/exist.json"})
	if !errors.Is(err, gcperr.ErrUnauthenticated) {
		t.Fatalf("got error %v, want ErrUnauthenticated", err)
	}
}
