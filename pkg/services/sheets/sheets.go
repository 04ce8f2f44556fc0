// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package sheets provides a thin client for the Google Sheets service.
package sheets

import (
	"context"
	"log/slog"

	gsheets "google.golang.org/api/sheets/v4"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "sheets"

// valueInputOption controls how written values are interpreted. USER_ENTERED
// parses values the way the Sheets UI would, e.g. strings looking like
// numbers become numbers.
const valueInputOption = "USER_ENTERED"

// Client is a thin wrapper over the Sheets SDK service.
type Client struct {
	conf    *credentials.Config
	logger  *slog.Logger
	service *gsheets.Service
}

// New creates a new Sheets client. When conf is nil, a default config with
// Application Default Credentials is used.
func New(ctx context.Context, conf *credentials.Config) (*Client, error) {
	if conf == nil {
		var err error
		conf, err = credentials.DefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	service, err := gsheets.NewService(ctx, conf.ClientOptions()...)
	if err != nil {
		return nil, gcperr.Translate(err)
	}

	client := &Client{
		conf:    conf,
		logger:  conf.Logger(),
		service: service,
	}

	return client, nil
}

// wrap records the API call and translates the vendor error.
func (c *Client) wrap(op string, err error) error {
	metrics.ObserveCall(serviceName, op, err)

	return gcperr.Translate(err)
}

// ReadRange returns the values of the given A1-notation range.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID string, readRange string) ([][]any, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, c.wrap("ReadRange", err)
	}

	metrics.ObserveCall(serviceName, "ReadRange", nil)

	return resp.Values, nil
}

// WriteRange replaces the values of the given A1-notation range.
func (c *Client) WriteRange(ctx context.Context, spreadsheetID string, writeRange string, values [][]any) error {
	body := &gsheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, body).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()

	return c.wrap("WriteRange", err)
}

// AppendRows appends the given rows after the last row of the table found in
// the given A1-notation range.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID string, appendRange string, values [][]any) error {
	body := &gsheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, appendRange, body).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()

	return c.wrap("AppendRows", err)
}

// ClearRange clears the values of the given A1-notation range. Formatting is
// left untouched.
func (c *Client) ClearRange(ctx context.Context, spreadsheetID string, clearRange string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()

	return c.wrap("ClearRange", err)
}
