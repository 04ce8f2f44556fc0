// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package dns provides a thin client for the Google Cloud DNS service.
package dns

import (
	"context"
	"log/slog"
	"strings"

	gdns "google.golang.org/api/dns/v1"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "dns"

// Client is a thin wrapper over the Cloud DNS SDK service.
type Client struct {
	conf    *credentials.Config
	logger  *slog.Logger
	service *gdns.Service
}

// New creates a new Cloud DNS client. When conf is nil, a default config with
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

	service, err := gdns.NewService(ctx, conf.ClientOptions()...)
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

// CreateZone creates a new managed zone serving the given DNS name.
func (c *Client) CreateZone(ctx context.Context, zone string, dnsName string, description string) (*gdns.ManagedZone, error) {
	mz := &gdns.ManagedZone{
		Name:        zone,
		DnsName:     AbsoluteName(dnsName),
		Description: description,
	}

	out, err := c.service.ManagedZones.Create(c.conf.ProjectID, mz).Context(ctx).Do()

	return out, c.wrap("CreateZone", err)
}

// DeleteZone deletes the given managed zone.
func (c *Client) DeleteZone(ctx context.Context, zone string) error {
	err := c.service.ManagedZones.Delete(c.conf.ProjectID, zone).Context(ctx).Do()

	return c.wrap("DeleteZone", err)
}

// GetZone returns the given managed zone.
func (c *Client) GetZone(ctx context.Context, zone string) (*gdns.ManagedZone, error) {
	out, err := c.service.ManagedZones.Get(c.conf.ProjectID, zone).Context(ctx).Do()

	return out, c.wrap("GetZone", err)
}

// ListZones returns the managed zones in the configured project.
func (c *Client) ListZones(ctx context.Context) ([]*gdns.ManagedZone, error) {
	items := make([]*gdns.ManagedZone, 0)
	call := c.service.ManagedZones.List(c.conf.ProjectID)
	err := call.Pages(ctx, func(page *gdns.ManagedZonesListResponse) error {
		items = append(items, page.ManagedZones...)

		return nil
	})
	if err != nil {
		return nil, c.wrap("ListZones", err)
	}

	metrics.ObserveCall(serviceName, "ListZones", nil)

	return items, nil
}

// ListRecords returns the record sets of the given managed zone.
func (c *Client) ListRecords(ctx context.Context, zone string) ([]*gdns.ResourceRecordSet, error) {
	items := make([]*gdns.ResourceRecordSet, 0)
	call := c.service.ResourceRecordSets.List(c.conf.ProjectID, zone)
	err := call.Pages(ctx, func(page *gdns.ResourceRecordSetsListResponse) error {
		items = append(items, page.Rrsets...)

		return nil
	})
	if err != nil {
		return nil, c.wrap("ListRecords", err)
	}

	metrics.ObserveCall(serviceName, "ListRecords", nil)

	return items, nil
}

// AddRecord adds a record set to the given managed zone.
func (c *Client) AddRecord(ctx context.Context, zone string, name string, recordType string, ttl int64, rrdatas []string) error {
	change := &gdns.Change{
		Additions: []*gdns.ResourceRecordSet{
			{
				Name:    AbsoluteName(name),
				Type:    recordType,
				Ttl:     ttl,
				Rrdatas: rrdatas,
			},
		},
	}

	_, err := c.service.Changes.Create(c.conf.ProjectID, zone, change).Context(ctx).Do()

	return c.wrap("AddRecord", err)
}

// DeleteRecord removes the record set with the given name and type from the
// managed zone.
func (c *Client) DeleteRecord(ctx context.Context, zone string, name string, recordType string) error {
	existing, err := c.service.ResourceRecordSets.Get(c.conf.ProjectID, zone, AbsoluteName(name), recordType).Context(ctx).Do()
	if err != nil {
		return c.wrap("DeleteRecord", err)
	}

	change := &gdns.Change{
		Deletions: []*gdns.ResourceRecordSet{existing},
	}

	_, err = c.service.Changes.Create(c.conf.ProjectID, zone, change).Context(ctx).Do()

	return c.wrap("DeleteRecord", err)
}

// AbsoluteName returns the given DNS name in absolute form, i.e. with a
// trailing dot.
func AbsoluteName(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}

	return name + "."
}
