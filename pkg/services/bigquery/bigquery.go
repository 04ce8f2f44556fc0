// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package bigquery provides a thin client for the Google BigQuery service.
package bigquery

import (
	"context"
	"errors"
	"log/slog"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "bigquery"

// Row represents a single result row, keyed by column name.
type Row map[string]bq.Value

// Client is a thin wrapper over the BigQuery SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *bq.Client
}

// New creates a new BigQuery client. When conf is nil, a default config with
// Application Default Credentials is used.
func New(ctx context.Context, conf *credentials.Config) (*Client, error) {
	if conf == nil {
		var err error
		conf, err = credentials.DefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := conf.RequireProject(); err != nil {
		return nil, err
	}

	c, err := bq.NewClient(ctx, conf.ProjectID, conf.ClientOptions()...)
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

// CreateDataset creates a new dataset in the configured location.
func (c *Client) CreateDataset(ctx context.Context, dataset string) error {
	meta := &bq.DatasetMetadata{
		Location: c.conf.Location,
	}

	err := c.client.Dataset(dataset).Create(ctx, meta)

	return c.wrap("CreateDataset", err)
}

// DeleteDataset deletes the dataset along with its contents.
func (c *Client) DeleteDataset(ctx context.Context, dataset string) error {
	err := c.client.Dataset(dataset).DeleteWithContents(ctx)

	return c.wrap("DeleteDataset", err)
}

// CreateTable creates a new table with the given schema.
func (c *Client) CreateTable(ctx context.Context, dataset string, table string, schema bq.Schema) error {
	meta := &bq.TableMetadata{
		Schema: schema,
	}

	err := c.client.Dataset(dataset).Table(table).Create(ctx, meta)

	return c.wrap("CreateTable", err)
}

// DeleteTable deletes the given table.
func (c *Client) DeleteTable(ctx context.Context, dataset string, table string) error {
	err := c.client.Dataset(dataset).Table(table).Delete(ctx)

	return c.wrap("DeleteTable", err)
}

// InsertRows streams the given rows into the table. The rows argument follows
// the SDK inserter contract, e.g. a slice of structs or of
// [bq.ValueSaver] items.
func (c *Client) InsertRows(ctx context.Context, dataset string, table string, rows any) error {
	inserter := c.client.Dataset(dataset).Table(table).Inserter()

	err := inserter.Put(ctx, rows)

	return c.wrap("InsertRows", err)
}

// Query runs the given SQL query and returns all result rows. Parameters are
// passed through to the SDK unchanged.
func (c *Client) Query(ctx context.Context, sql string, params ...bq.QueryParameter) ([]Row, error) {
	query := c.client.Query(sql)
	query.Parameters = params

	iter, err := query.Read(ctx)
	if err != nil {
		return nil, c.wrap("Query", err)
	}

	items := make([]Row, 0)
	for {
		// The SDK value loader recognizes *map[string]bq.Value, not
		// the named Row type.
		row := make(map[string]bq.Value)
		err := iter.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("Query", err)
		}

		items = append(items, Row(row))
	}

	metrics.ObserveCall(serviceName, "Query", nil)

	return items, nil
}

// LoadFromGCS loads data from the given gs:// URI into the table and blocks
// until the load job completes.
func (c *Client) LoadFromGCS(ctx context.Context, dataset string, table string, uri string, format bq.DataFormat) error {
	gcsRef := bq.NewGCSReference(uri)
	gcsRef.SourceFormat = format

	loader := c.client.Dataset(dataset).Table(table).LoaderFrom(gcsRef)

	job, err := loader.Run(ctx)
	if err != nil {
		return c.wrap("LoadFromGCS", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return c.wrap("LoadFromGCS", err)
	}

	if err := status.Err(); err != nil {
		return c.wrap("LoadFromGCS", err)
	}

	c.logger.Debug("loaded data from GCS", "dataset", dataset, "table", table, "uri", uri)
	metrics.ObserveCall(serviceName, "LoadFromGCS", nil)

	return nil
}
