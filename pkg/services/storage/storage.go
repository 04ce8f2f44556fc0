// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package storage provides a thin client for the Google Cloud Storage
// service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "storage"

// uriScheme is the URI scheme for Cloud Storage object locations.
const uriScheme = "gs://"

// ErrInvalidObjectURI is an error, which is returned when parsing a
// malformed gs:// object URI.
var ErrInvalidObjectURI = errors.New("invalid object URI")

// Client is a thin wrapper over the Cloud Storage SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *gcs.Client
}

// New creates a new Cloud Storage client. When conf is nil, a default config
// with Application Default Credentials is used.
func New(ctx context.Context, conf *credentials.Config) (*Client, error) {
	if conf == nil {
		var err error
		conf, err = credentials.DefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	c, err := gcs.NewClient(ctx, conf.ClientOptions()...)
	if err != nil {
		return nil, gcperr.Translate(err)
	}

	client := &Client{
		conf:   conf,
		logger: conf.Logger(),
		client: c,
	}

	return client, nil
}

// Close closes the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

// wrap records the API call and translates the vendor error.
func (c *Client) wrap(op string, err error) error {
	metrics.ObserveCall(serviceName, op, err)

	return gcperr.Translate(err)
}

// CreateBucket creates a new bucket in the configured project. The attrs
// argument may be nil for default bucket attributes.
func (c *Client) CreateBucket(ctx context.Context, name string, attrs *gcs.BucketAttrs) error {
	if err := c.conf.RequireProject(); err != nil {
		return err
	}

	err := c.client.Bucket(name).Create(ctx, c.conf.ProjectID, attrs)

	return c.wrap("CreateBucket", err)
}

// DeleteBucket deletes the given bucket. The bucket must be empty.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	err := c.client.Bucket(name).Delete(ctx)

	return c.wrap("DeleteBucket", err)
}

// ListBuckets returns the attributes of the buckets in the configured
// project.
func (c *Client) ListBuckets(ctx context.Context) ([]*gcs.BucketAttrs, error) {
	if err := c.conf.RequireProject(); err != nil {
		return nil, err
	}

	items := make([]*gcs.BucketAttrs, 0)
	iter := c.client.Buckets(ctx, c.conf.ProjectID)
	for {
		attrs, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListBuckets", err)
		}

		items = append(items, attrs)
	}

	metrics.ObserveCall(serviceName, "ListBuckets", nil)

	return items, nil
}

// Upload writes the contents of r to the given bucket and object name and
// returns the attributes of the written object.
func (c *Client) Upload(ctx context.Context, bucket string, object string, r io.Reader) (*gcs.ObjectAttrs, error) {
	w := c.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()

		return nil, c.wrap("Upload", err)
	}

	if err := w.Close(); err != nil {
		return nil, c.wrap("Upload", err)
	}

	c.logger.Debug("uploaded object", "bucket", bucket, "object", object)
	metrics.ObserveCall(serviceName, "Upload", nil)

	return w.Attrs(), nil
}

// Download copies the contents of the given object to w and returns the
// number of bytes written.
func (c *Client) Download(ctx context.Context, bucket string, object string, w io.Writer) (int64, error) {
	r, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return 0, c.wrap("Download", err)
	}
	defer r.Close()

	n, err := io.Copy(w, r)

	return n, c.wrap("Download", err)
}

// Copy copies an object and returns the attributes of the new object.
func (c *Client) Copy(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (*gcs.ObjectAttrs, error) {
	src := c.client.Bucket(srcBucket).Object(srcObject)
	dst := c.client.Bucket(dstBucket).Object(dstObject)

	attrs, err := dst.CopierFrom(src).Run(ctx)

	return attrs, c.wrap("Copy", err)
}

// Move copies an object to the new location and deletes the source object.
func (c *Client) Move(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (*gcs.ObjectAttrs, error) {
	attrs, err := c.Copy(ctx, srcBucket, srcObject, dstBucket, dstObject)
	if err != nil {
		return nil, err
	}

	if err := c.Delete(ctx, srcBucket, srcObject); err != nil {
		return nil, err
	}

	return attrs, nil
}

// Delete deletes the given object.
func (c *Client) Delete(ctx context.Context, bucket string, object string) error {
	err := c.client.Bucket(bucket).Object(object).Delete(ctx)

	return c.wrap("Delete", err)
}

// ListObjects returns the attributes of the objects in the bucket matching
// the given prefix. An empty prefix lists the whole bucket.
func (c *Client) ListObjects(ctx context.Context, bucket string, prefix string) ([]*gcs.ObjectAttrs, error) {
	var query *gcs.Query
	if prefix != "" {
		query = &gcs.Query{Prefix: prefix}
	}

	items := make([]*gcs.ObjectAttrs, 0)
	iter := c.client.Bucket(bucket).Objects(ctx, query)
	for {
		attrs, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListObjects", err)
		}

		items = append(items, attrs)
	}

	metrics.ObserveCall(serviceName, "ListObjects", nil)

	return items, nil
}

// SignedURL returns a signed URL granting temporary read access to the given
// object.
func (c *Client) SignedURL(bucket string, object string, expires time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expires),
	}

	url, err := c.client.Bucket(bucket).SignedURL(object, opts)

	return url, c.wrap("SignedURL", err)
}

// ParseURI splits a gs://bucket/object URI into its bucket and object parts.
func ParseURI(uri string) (bucket string, object string, err error) {
	rest, ok := strings.CutPrefix(uri, uriScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidObjectURI, uri)
	}

	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidObjectURI, uri)
	}

	return bucket, object, nil
}

// URI returns the gs:// URI for the given bucket and object.
func URI(bucket string, object string) string {
	return fmt.Sprintf("%s%s/%s", uriScheme, bucket, object)
}
