// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package credentials

import (
	"context"
	"testing"

	"golang.org/x/oauth2/google"
)

func TestConfigureExplicitProject(t *testing.T) {
	conf, err := DefaultResolver.Configure(
		context.Background(),
		Spec{},
		WithCredentials(&google.Credentials{ProjectID: "other"}),
		WithProjectID("demo"),
		WithLocation("europe-west1"),
	)
	if err != nil {
		t.Fatalf("failed to configure: %s", err)
	}

	if conf.ProjectID != "demo" {
		t.Fatalf("got project %q, want %q", conf.ProjectID, "demo")
	}

	if conf.Location != "europe-west1" {
		t.Fatalf("got location %q, want %q", conf.Location, "europe-west1")
	}
}

func TestConfigureProjectFromCredentials(t *testing.T) {
	conf, err := DefaultResolver.Configure(
		context.Background(),
		Spec{},
		WithCredentials(&google.Credentials{ProjectID: "from-creds"}),
	)
	if err != nil {
		t.Fatalf("failed to configure: %s", err)
	}

	if conf.ProjectID != "from-creds" {
		t.Fatalf("got project %q, want %q", conf.ProjectID, "from-creds")
	}
}

func TestConfigureProjectFromEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "from-env")

	conf, err := DefaultResolver.Configure(
		context.Background(),
		Spec{},
		WithCredentials(&google.Credentials{}),
	)
	if err != nil {
		t.Fatalf("failed to configure: %s", err)
	}

	if conf.ProjectID != "from-env" {
		t.Fatalf("got project %q, want %q", conf.ProjectID, "from-env")
	}
}

func TestConfigureLocationFromEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_LOCATION", "us-central1")

	conf, err := DefaultResolver.Configure(
		context.Background(),
		Spec{},
		WithCredentials(&google.Credentials{ProjectID: "demo"}),
	)
	if err != nil {
		t.Fatalf("failed to configure: %s", err)
	}

	if conf.Location != "us-central1" {
		t.Fatalf("got location %q, want %q", conf.Location, "us-central1")
	}
}

func TestConfigureDefaultUserAgent(t *testing.T) {
	conf, err := DefaultResolver.Configure(
		context.Background(),
		Spec{},
		WithCredentials(&google.Credentials{ProjectID: "demo"}),
	)
	if err != nil {
		t.Fatalf("failed to configure: %s", err)
	}

	if conf.UserAgent == "" {
		t.Fatalf("no default user agent was set")
	}
}

func TestRequireProject(t *testing.T) {
	conf := &Config{}
	if err := conf.RequireProject(); err != ErrNoProjectID {
		t.Fatalf("got error %v, want ErrNoProjectID", err)
	}

	conf.ProjectID = "demo"
	if err := conf.RequireProject(); err != nil {
		t.Fatalf("got error %v for a configured project", err)
	}
}

func TestRequireLocation(t *testing.T) {
	conf := &Config{}
	if err := conf.RequireLocation(); err != ErrNoLocation {
		t.Fatalf("got error %v, want ErrNoLocation", err)
	}

	conf.Location = "europe-west1"
	if err := conf.RequireLocation(); err != nil {
		t.Fatalf("got error %v for a configured location", err)
	}
}

func TestRegionFromZone(t *testing.T) {
	tests := []struct {
		zone string
		want string
	}{
		{"europe-west1-b", "europe-west1"},
		{"us-central1-a", "us-central1"},
		{"global", "global"},
	}

	for _, tc := range tests {
		if got := regionFromZone(tc.zone); got != tc.want {
			t.Fatalf("regionFromZone(%q) = %q, want %q", tc.zone, got, tc.want)
		}
	}
}

func TestClientOptionsIncludeCredentials(t *testing.T) {
	conf, err := DefaultResolver.Configure(
		context.Background(),
		Spec{},
		WithCredentials(&google.Credentials{ProjectID: "demo"}),
	)
	if err != nil {
		t.Fatalf("failed to configure: %s", err)
	}

	// User-Agent option plus the credentials option.
	if len(conf.ClientOptions()) != 2 {
		t.Fatalf("got %d client options, want 2", len(conf.ClientOptions()))
	}
}
