// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package slog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gcpkit/gcpkit/pkg/core/config"
)

func TestNewFromConfigDefaults(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewFromConfig(&buf, &config.Config{})
	if err != nil {
		t.Fatalf("failed to create logger: %s", err)
	}

	logger.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("log output %q does not contain the logged message", buf.String())
	}
}

func TestNewFromConfigAttributes(t *testing.T) {
	var buf bytes.Buffer

	conf := &config.Config{
		Logging: config.LoggingConfig{
			Format:     "json",
			Attributes: map[string]string{"component": "gcpkit"},
		},
	}

	logger, err := NewFromConfig(&buf, conf)
	if err != nil {
		t.Fatalf("failed to create logger: %s", err)
	}

	logger.Info("hello")
	if !strings.Contains(buf.String(), `"component":"gcpkit"`) {
		t.Fatalf("log output %q does not contain the configured attribute", buf.String())
	}
}

func TestNewFromConfigDebugOverride(t *testing.T) {
	var buf bytes.Buffer

	conf := &config.Config{
		Debug: true,
		Logging: config.LoggingConfig{
			Level: "error",
		},
	}

	logger, err := NewFromConfig(&buf, conf)
	if err != nil {
		t.Fatalf("failed to create logger: %s", err)
	}

	logger.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("debug mode did not lower the log level, output %q", buf.String())
	}
}

func TestNewFromConfigInvalidLevel(t *testing.T) {
	var buf bytes.Buffer

	conf := &config.Config{
		Logging: config.LoggingConfig{Level: "verbose"},
	}

	_, err := NewFromConfig(&buf, conf)
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("got error %v, want ErrInvalidLogLevel", err)
	}
}

func TestNewFromConfigInvalidFormat(t *testing.T) {
	var buf bytes.Buffer

	conf := &config.Config{
		Logging: config.LoggingConfig{Format: "xml"},
	}

	_, err := NewFromConfig(&buf, conf)
	if !errors.Is(err, ErrInvalidLogFormat) {
		t.Fatalf("got error %v, want ErrInvalidLogFormat", err)
	}
}
