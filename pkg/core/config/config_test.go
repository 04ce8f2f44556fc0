// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write config file: %s", err)
	}

	return path
}

func TestParseValidConfig(t *testing.T) {
	data := `
version: v1alpha1
project: demo
location: europe-west1
user_agent: test-agent
credentials:
  default:
    authentication: none
  sa:
    authentication: key_file
    key_file:
      path: /etc/gcpkit/sa.json
    impersonate:
      target: other@demo.iam.gserviceaccount.com
services:
  storage:
    use_credentials: sa
  pubsub:
    use_credentials: default
`
	conf, err := Parse(writeConfigFile(t, data))
	if err != nil {
		t.Fatalf("failed to parse config: %s", err)
	}

	if conf.Project != "demo" {
		t.Fatalf("got project %q, want %q", conf.Project, "demo")
	}

	if conf.Credentials["sa"].KeyFile.Path != "/etc/gcpkit/sa.json" {
		t.Fatalf("got key file path %q", conf.Credentials["sa"].KeyFile.Path)
	}

	if conf.Credentials["sa"].Impersonate.Target != "other@demo.iam.gserviceaccount.com" {
		t.Fatalf("got impersonation target %q", conf.Credentials["sa"].Impersonate.Target)
	}

	if err := conf.Validate(); err != nil {
		t.Fatalf("valid config failed validation: %s", err)
	}
}

func TestParseMissingVersion(t *testing.T) {
	_, err := Parse(writeConfigFile(t, "project: demo\n"))
	if !errors.Is(err, ErrNoConfigVersion) {
		t.Fatalf("got error %v, want ErrNoConfigVersion", err)
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	_, err := Parse(writeConfigFile(t, "version: v1beta1\n"))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("got error %v, want ErrUnsupportedVersion", err)
	}
}

func TestValidateUnknownAuthenticationMethod(t *testing.T) {
	conf := &Config{
		Version: ConfigFormatVersion,
		Credentials: map[string]Credentials{
			"bad": {Authentication: "magic"},
		},
	}

	if err := conf.Validate(); !errors.Is(err, errUnknownAuthenticationMethod) {
		t.Fatalf("got error %v, want errUnknownAuthenticationMethod", err)
	}
}

func TestValidateMissingKeyFilePath(t *testing.T) {
	conf := &Config{
		Version: ConfigFormatVersion,
		Credentials: map[string]Credentials{
			"sa": {Authentication: AuthenticationMethodKeyFile},
		},
	}

	if err := conf.Validate(); !errors.Is(err, errNoKeyFile) {
		t.Fatalf("got error %v, want errNoKeyFile", err)
	}
}

func TestValidateDanglingCredentialsReference(t *testing.T) {
	conf := &Config{
		Version: ConfigFormatVersion,
		Services: map[string]ServiceConfig{
			"storage": {UseCredentials: "missing"},
		},
	}

	if err := conf.Validate(); !errors.Is(err, errUnknownNamedCredentials) {
		t.Fatalf("got error %v, want errUnknownNamedCredentials", err)
	}
}

func TestValidateUnknownService(t *testing.T) {
	conf := &Config{
		Version: ConfigFormatVersion,
		Services: map[string]ServiceConfig{
			"quantum": {},
		},
	}

	if err := conf.Validate(); !errors.Is(err, errUnknownService) {
		t.Fatalf("got error %v, want errUnknownService", err)
	}
}
