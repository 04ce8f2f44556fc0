// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package resourcemanager

import "testing"

func TestProjectFQN(t *testing.T) {
	testCases := []struct {
		desc   string
		input  string
		wanted string
	}{
		{
			desc:   "input is a project id",
			input:  "demo",
			wanted: "projects/demo",
		},
		{
			desc:   "input is already fully-qualified",
			input:  "projects/demo",
			wanted: "projects/demo",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := ProjectFQN(tc.input); got != tc.wanted {
				t.Fatalf("wanted %s got %s", tc.wanted, got)
			}
		})
	}
}
