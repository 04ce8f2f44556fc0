// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChunks(t *testing.T) {
	testCases := []struct {
		desc      string
		items     int
		size      int
		wantSizes []int
	}{
		{
			desc:      "empty input",
			items:     0,
			size:      500,
			wantSizes: []int{},
		},
		{
			desc:      "single partial chunk",
			items:     3,
			size:      500,
			wantSizes: []int{3},
		},
		{
			desc:      "exact multiple",
			items:     1000,
			size:      500,
			wantSizes: []int{500, 500},
		},
		{
			desc:      "remainder chunk",
			items:     1001,
			size:      500,
			wantSizes: []int{500, 500, 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			items := make([]int, tc.items)
			out := chunks(items, tc.size)

			if len(out) != len(tc.wantSizes) {
				t.Fatalf("got %d chunks, want %d", len(out), len(tc.wantSizes))
			}

			for i, chunk := range out {
				if len(chunk) != tc.wantSizes[i] {
					t.Fatalf("chunk %d has %d items, want %d", i, len(chunk), tc.wantSizes[i])
				}
			}
		})
	}
}

func TestPrefixUpperBound(t *testing.T) {
	bound := prefixUpperBound("foo")

	if !strings.HasPrefix(bound, "foo") {
		t.Fatalf("upper bound %q does not retain the prefix", bound)
	}

	// Any value with the prefix must sort at or before the bound.
	for _, v := range []string{"foo", "foobar", "foozzz"} {
		if v > bound {
			t.Fatalf("value %q sorts after the upper bound %q", v, bound)
		}
	}
}

func TestQueryUnsupportedOperator(t *testing.T) {
	client := &Client{}
	kind := NewKind[struct{}](client, "Book")

	q := kind.Query().Filter("title", "startswith", "go")

	if _, err := q.All(context.Background()); !errors.Is(err, ErrUnsupportedOperator) {
		t.Fatalf("got error %v, want ErrUnsupportedOperator", err)
	}
}

func TestQuerySupportedOperators(t *testing.T) {
	client := &Client{}
	kind := NewKind[struct{}](client, "Book")

	for _, op := range supportedOperators {
		q := kind.Query().Filter("pages", op, 100)
		if q.err != nil {
			t.Fatalf("operator %q was rejected: %s", op, q.err)
		}
	}
}

func TestQueryPageInvalidCursor(t *testing.T) {
	client := &Client{}
	kind := NewKind[struct{}](client, "Book")

	_, _, err := kind.Query().Page(context.Background(), 10, "!!not-a-cursor!!")
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("got error %v, want ErrInvalidCursor", err)
	}
}

func TestNameKeyNamespace(t *testing.T) {
	client := &Client{namespace: "tenant-1"}
	kind := NewKind[struct{}](client, "Book")

	key := kind.nameKey("the-go-programming-language")

	if key.Namespace != "tenant-1" {
		t.Fatalf("key namespace is %q, want %q", key.Namespace, "tenant-1")
	}

	if key.Kind != "Book" || key.Name != "the-go-programming-language" {
		t.Fatalf("unexpected key %v", key)
	}
}
