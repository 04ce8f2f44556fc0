// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus instrumentation for the API calls made
// through the gcpkit service clients.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// StatusOK is the status label value for successful API calls.
	StatusOK = "ok"

	// StatusError is the status label value for failed API calls.
	StatusError = "error"
)

// apiCalls counts the number of vendor API calls made through gcpkit,
// partitioned by service, operation and status.
var apiCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gcpkit",
		Name:      "api_calls_total",
		Help:      "Number of Google Cloud API calls made through gcpkit.",
	},
	[]string{"service", "operation", "status"},
)

// ObserveCall records a single API call for the given service and operation.
// The status label is derived from err.
func ObserveCall(service string, operation string, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}

	apiCalls.WithLabelValues(service, operation, status).Inc()
}

// Collector returns the [prometheus.Collector] exposing the gcpkit metrics.
// Applications are expected to register it with their own registry.
func Collector() prometheus.Collector {
	return apiCalls
}

// MustRegister registers the gcpkit metrics with the given registerer.
func MustRegister(r prometheus.Registerer) {
	r.MustRegister(apiCalls)
}
