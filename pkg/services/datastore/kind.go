// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	ds "cloud.google.com/go/datastore"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/gcperr"
)

// maxItemsPerOperation is the upper bound on entities per multi operation.
// Datastore rejects writes and deletes of more than 500 items per call.
const maxItemsPerOperation = 500

// ErrMultipleFound is an error, which is returned when a lookup expected to
// match a single document matched more than one.
var ErrMultipleFound = errors.New("multiple documents found")

// ErrUnsupportedOperator is an error, which is returned when a query uses a
// filter operator not supported by Datastore.
var ErrUnsupportedOperator = errors.New("unsupported filter operator")

// ErrInvalidCursor is an error, which is returned when a page cursor cannot
// be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// supportedOperators contains the filter operators accepted by
// [Query.Filter].
var supportedOperators = []string{"=", ">", ">=", "<", "<=", "in"}

// Kind provides typed document operations over a single Datastore entity
// kind. The type parameter T is the Go struct the entities load into,
// following the SDK's entity field tags.
type Kind[T any] struct {
	client *Client
	name   string
}

// NewKind creates a new [Kind] for the given entity kind name.
func NewKind[T any](client *Client, name string) *Kind[T] {
	k := &Kind[T]{
		client: client,
		name:   name,
	}

	return k
}

// nameKey builds a named key for the kind in the client namespace.
func (k *Kind[T]) nameKey(name string) *ds.Key {
	key := ds.NameKey(k.name, name, nil)
	key.Namespace = k.client.namespace

	return key
}

// Get returns the document with the given key name. Returns an error wrapping
// [gcperr.ErrNotFound], if no such document exists.
func (k *Kind[T]) Get(ctx context.Context, name string) (*T, error) {
	var doc T
	err := k.client.client.Get(ctx, k.nameKey(name), &doc)
	if errors.Is(err, ds.ErrNoSuchEntity) {
		err = fmt.Errorf("%w: %s %q", gcperr.ErrNotFound, k.name, name)
	}

	if err := k.client.wrap("Get", err); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Put stores the document under the given key name, creating or replacing it.
func (k *Kind[T]) Put(ctx context.Context, name string, doc *T) error {
	_, err := k.client.client.Put(ctx, k.nameKey(name), doc)

	return k.client.wrap("Put", err)
}

// Create stores the document under a new server-allocated key and returns the
// complete key.
func (k *Kind[T]) Create(ctx context.Context, doc *T) (*ds.Key, error) {
	key := ds.IncompleteKey(k.name, nil)
	key.Namespace = k.client.namespace

	out, err := k.client.client.Put(ctx, key, doc)

	return out, k.client.wrap("Create", err)
}

// Update loads the document with the given key name, applies mutate to it and
// stores the result. Returns the updated document.
func (k *Kind[T]) Update(ctx context.Context, name string, mutate func(doc *T) error) (*T, error) {
	doc, err := k.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := mutate(doc); err != nil {
		return nil, err
	}

	if err := k.Put(ctx, name, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Delete deletes the document with the given key name.
func (k *Kind[T]) Delete(ctx context.Context, name string) error {
	err := k.client.client.Delete(ctx, k.nameKey(name))

	return k.client.wrap("Delete", err)
}

// DeleteAll deletes every document of the kind and returns the number of
// deleted documents. Deletion happens in chunks, which respect the Datastore
// multi-operation limit.
func (k *Kind[T]) DeleteAll(ctx context.Context) (int, error) {
	keys, err := k.Query().Keys(ctx)
	if err != nil {
		return 0, err
	}

	for _, chunk := range chunks(keys, maxItemsPerOperation) {
		if err := k.client.client.DeleteMulti(ctx, chunk); err != nil {
			return 0, k.client.wrap("DeleteAll", err)
		}
	}

	return len(keys), nil
}

// Query starts a new query over the kind.
func (k *Kind[T]) Query() *Query[T] {
	q := ds.NewQuery(k.name).Namespace(k.client.namespace)

	query := &Query[T]{
		kind: k,
		q:    q,
	}

	return query
}

// Query is a builder for typed queries over a [Kind].
type Query[T any] struct {
	kind *Kind[T]
	q    *ds.Query
	err  error
}

// Filter adds a filter on the given field. The supported operators are
// =, >, >=, <, <= and in.
func (q *Query[T]) Filter(field string, operator string, value any) *Query[T] {
	if !slices.Contains(supportedOperators, operator) {
		q.err = fmt.Errorf("%w: %s", ErrUnsupportedOperator, operator)

		return q
	}

	q.q = q.q.FilterField(field, operator, value)

	return q
}

// FilterPrefix adds a filter matching string fields starting with the given
// prefix.
func (q *Query[T]) FilterPrefix(field string, prefix string) *Query[T] {
	q.q = q.q.FilterField(field, ">=", prefix)
	q.q = q.q.FilterField(field, "<=", prefixUpperBound(prefix))

	return q
}

// Order sorts the results by the given field. Prefix the field name with a
// minus sign for descending order, e.g. "-created_at".
func (q *Query[T]) Order(field string) *Query[T] {
	q.q = q.q.Order(field)

	return q
}

// Limit caps the number of returned documents.
func (q *Query[T]) Limit(limit int) *Query[T] {
	q.q = q.q.Limit(limit)

	return q
}

// All runs the query and returns all matching documents.
func (q *Query[T]) All(ctx context.Context) ([]*T, error) {
	if q.err != nil {
		return nil, q.err
	}

	items := make([]*T, 0)
	iter := q.kind.client.client.Run(ctx, q.q)
	for {
		var doc T
		_, err := iter.Next(&doc)
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, q.kind.client.wrap("Query", err)
		}

		items = append(items, &doc)
	}

	return items, nil
}

// Page runs the query and returns up to limit documents, along with an opaque
// cursor for fetching the next page. Pass an empty cursor for the first page.
// The returned cursor is empty once the result set is exhausted.
func (q *Query[T]) Page(ctx context.Context, limit int, cursor string) ([]*T, string, error) {
	if q.err != nil {
		return nil, "", q.err
	}

	query := q.q.Limit(limit)
	if cursor != "" {
		decoded, err := ds.DecodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", ErrInvalidCursor, err)
		}
		query = query.Start(decoded)
	}

	items := make([]*T, 0, limit)
	iter := q.kind.client.client.Run(ctx, query)
	for {
		var doc T
		_, err := iter.Next(&doc)
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, "", q.kind.client.wrap("Query", err)
		}

		items = append(items, &doc)
	}

	if len(items) < limit {
		return items, "", nil
	}

	next, err := iter.Cursor()
	if err != nil {
		return nil, "", q.kind.client.wrap("Query", err)
	}

	return items, next.String(), nil
}

// Keys runs the query in keys-only mode and returns the matching keys.
func (q *Query[T]) Keys(ctx context.Context) ([]*ds.Key, error) {
	if q.err != nil {
		return nil, q.err
	}

	keys, err := q.kind.client.client.GetAll(ctx, q.q.KeysOnly(), nil)

	return keys, q.kind.client.wrap("Query", err)
}

// First runs the query and returns the first matching document. Returns an
// error wrapping [gcperr.ErrNotFound], if nothing matched.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	q.q = q.q.Limit(1)

	items, err := q.All(ctx)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", gcperr.ErrNotFound, q.kind.name)
	}

	return items[0], nil
}

// One runs the query and returns the single matching document. Returns an
// error wrapping [gcperr.ErrNotFound] when nothing matched, and
// [ErrMultipleFound] when more than one document matched.
func (q *Query[T]) One(ctx context.Context) (*T, error) {
	q.q = q.q.Limit(2)

	items, err := q.All(ctx)
	if err != nil {
		return nil, err
	}

	switch len(items) {
	case 0:
		return nil, fmt.Errorf("%w: %s", gcperr.ErrNotFound, q.kind.name)
	case 1:
		return items[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMultipleFound, q.kind.name)
	}
}

// prefixUpperBound returns the upper bound for prefix matching. The last
// valid Unicode code point sorts after any string with the given prefix.
func prefixUpperBound(prefix string) string {
	return prefix + "�"
}

// chunks splits items into chunks of at most size items each.
func chunks[T any](items []T, size int) [][]T {
	out := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		out = append(out, items[:size])
		items = items[size:]
	}

	if len(items) > 0 {
		out = append(out, items)
	}

	return out
}
