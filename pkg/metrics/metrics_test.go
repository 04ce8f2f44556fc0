// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCallSuccess(t *testing.T) {
	before := testutil.ToFloat64(apiCalls.WithLabelValues("storage", "Upload", StatusOK))

	ObserveCall("storage", "Upload", nil)

	after := testutil.ToFloat64(apiCalls.WithLabelValues("storage", "Upload", StatusOK))
	if after != before+1 {
		t.Fatalf("successful call was not counted: before %f, after %f", before, after)
	}
}

func TestObserveCallError(t *testing.T) {
	before := testutil.ToFloat64(apiCalls.WithLabelValues("pubsub", "Publish", StatusError))

	ObserveCall("pubsub", "Publish", errors.New("boom"))

	after := testutil.ToFloat64(apiCalls.WithLabelValues("pubsub", "Publish", StatusError))
	if after != before+1 {
		t.Fatalf("failed call was not counted: before %f, after %f", before, after)
	}
}
