// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package monitoring

import "testing"

func TestMetricType(t *testing.T) {
	testCases := []struct {
		desc   string
		input  string
		wanted string
	}{
		{
			desc:   "input includes custom prefix",
			input:  "custom.googleapis.com/orders/processed",
			wanted: "custom.googleapis.com/orders/processed",
		},
		{
			desc:   "input does not include custom prefix",
			input:  "orders/processed",
			wanted: "custom.googleapis.com/orders/processed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := MetricType(tc.input); got != tc.wanted {
				t.Fatalf("wanted %s got %s", tc.wanted, got)
			}
		})
	}
}
