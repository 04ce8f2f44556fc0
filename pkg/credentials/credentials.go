// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package credentials resolves Google Cloud credentials from explicit service
// account keys or from the ambient environment, optionally impersonating
// another service account. Resolved credentials are cached for the lifetime
// of the resolver, so that repeated client construction does not trigger new
// authentication handshakes.
package credentials

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"

	"github.com/gcpkit/gcpkit/pkg/core/registry"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
)

// DefaultScope is the OAuth2 scope requested when a credential spec does not
// specify any scopes.
const DefaultScope = "https://www.googleapis.com/auth/cloud-platform"

// Spec describes a credential source. The zero value means Application
// Default Credentials.
type Spec struct {
	// KeyFile is the path to a service account JSON key file.
	KeyFile string

	// KeyJSON is inline service account JSON key data. Takes precedence
	// over KeyFile.
	KeyJSON []byte

	// Impersonate is the email address of a service account to
	// impersonate using the resolved base credentials.
	Impersonate string

	// Delegates is the optional chain of delegates required to grant the
	// impersonated token.
	Delegates []string

	// Scopes are the OAuth2 scopes to request. Defaults to
	// [DefaultScope].
	Scopes []string
}

// scopes returns the effective OAuth2 scopes for the spec.
func (s Spec) scopes() []string {
	if len(s.Scopes) == 0 {
		return []string{DefaultScope}
	}

	return s.Scopes
}

// fingerprint derives the cache key for the spec. Two specs with the same
// fingerprint resolve to interchangeable credentials.
func (s Spec) fingerprint() string {
	sum := sha256.Sum256(s.KeyJSON)
	parts := []string{
		s.KeyFile,
		hex.EncodeToString(sum[:]),
		s.Impersonate,
		strings.Join(s.Delegates, ","),
		strings.Join(s.scopes(), ","),
	}

	return strings.Join(parts, "|")
}

// Resolver resolves and caches Google Cloud credentials.
type Resolver struct {
	mu     sync.Mutex
	cache  *registry.Registry[string, *google.Credentials]
	detect func(ctx context.Context, spec Spec) (*google.Credentials, error)
}

// NewResolver creates a new [Resolver] with an empty cache.
func NewResolver() *Resolver {
	r := &Resolver{
		cache:  registry.New[string, *google.Credentials](),
		detect: detectCredentials,
	}

	return r
}

// DefaultResolver is the process-global resolver used by [DefaultConfig].
var DefaultResolver = NewResolver()

// Resolve resolves the credentials described by the given spec. The result is
// cached per spec fingerprint, so resolving twice with identical inputs
// returns the same credentials without a second round of authentication.
//
// When no usable credential source exists, the returned error wraps
// [gcperr.ErrUnauthenticated].
func (r *Resolver) Resolve(ctx context.Context, spec Spec) (*google.Credentials, error) {
	key := spec.fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if creds, ok := r.cache.Get(key); ok {
		return creds, nil
	}

	creds, err := r.detect(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gcperr.ErrUnauthenticated, err)
	}

	if spec.Impersonate != "" {
		creds, err = impersonateCredentials(ctx, creds, spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", gcperr.ErrUnauthenticated, err)
		}
	}

	r.cache.Overwrite(key, creds)

	return creds, nil
}

// detectCredentials resolves the base credentials for the given spec, falling
// back to Application Default Credentials when the spec names no explicit
// source.
func detectCredentials(ctx context.Context, spec Spec) (*google.Credentials, error) {
	switch {
	case len(spec.KeyJSON) > 0:
		return google.CredentialsFromJSON(ctx, spec.KeyJSON, spec.scopes()...)
	case spec.KeyFile != "":
		data, err := os.ReadFile(spec.KeyFile)
		if err != nil {
			return nil, err
		}

		return google.CredentialsFromJSON(ctx, data, spec.scopes()...)
	default:
		return google.FindDefaultCredentials(ctx, spec.scopes()...)
	}
}

// impersonateCredentials derives impersonated credentials for the target
// service account from the given base credentials.
func impersonateCredentials(ctx context.Context, base *google.Credentials, spec Spec) (*google.Credentials, error) {
	ts, err := impersonate.CredentialsTokenSource(
		ctx,
		impersonate.CredentialsConfig{
			TargetPrincipal: spec.Impersonate,
			Delegates:       spec.Delegates,
			Scopes:          spec.scopes(),
		},
		option.WithCredentials(base),
	)
	if err != nil {
		return nil, err
	}

	creds := &google.Credentials{
		ProjectID:   base.ProjectID,
		TokenSource: ts,
	}

	return creds, nil
}
