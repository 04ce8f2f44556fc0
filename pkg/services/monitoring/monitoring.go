// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package monitoring provides a thin client for the Google Cloud Monitoring
// service, focused on custom metrics.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gmonitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/api/iterator"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	monitoredrespb "google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "monitoring"

// customMetricPrefix is the metric type prefix reserved for user-defined
// metrics.
const customMetricPrefix = "custom.googleapis.com/"

// Client is a thin wrapper over the Cloud Monitoring metric SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *gmonitoring.MetricClient
}

// New creates a new Cloud Monitoring client. When conf is nil, a default
// config with Application Default Credentials is used.
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

	c, err := gmonitoring.NewMetricClient(ctx, conf.ClientOptions()...)
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

// projectName returns the full resource name of the configured project.
func (c *Client) projectName() string {
	return fmt.Sprintf("projects/%s", c.conf.ProjectID)
}

// WriteGauge writes a single point of the given custom gauge metric. The
// metric name may be given with or without the custom metric prefix.
func (c *Client) WriteGauge(ctx context.Context, name string, value float64, labels map[string]string) error {
	series := &monitoringpb.TimeSeries{
		Metric: &metricpb.Metric{
			Type:   MetricType(name),
			Labels: labels,
		},
		Resource: &monitoredrespb.MonitoredResource{
			Type: "global",
			Labels: map[string]string{
				"project_id": c.conf.ProjectID,
			},
		},
		Points: []*monitoringpb.Point{
			{
				Interval: &monitoringpb.TimeInterval{
					EndTime: timestamppb.New(time.Now()),
				},
				Value: &monitoringpb.TypedValue{
					Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: value},
				},
			},
		},
	}

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       c.projectName(),
		TimeSeries: []*monitoringpb.TimeSeries{series},
	}

	err := c.client.CreateTimeSeries(ctx, req)

	return c.wrap("WriteGauge", err)
}

// ListMetricDescriptors returns the metric descriptors of the configured
// project matching the given filter. An empty filter lists all descriptors.
func (c *Client) ListMetricDescriptors(ctx context.Context, filter string) ([]*metricpb.MetricDescriptor, error) {
	req := &monitoringpb.ListMetricDescriptorsRequest{
		Name:   c.projectName(),
		Filter: filter,
	}

	items := make([]*metricpb.MetricDescriptor, 0)
	iter := c.client.ListMetricDescriptors(ctx, req)
	for {
		descriptor, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListMetricDescriptors", err)
		}

		items = append(items, descriptor)
	}

	metrics.ObserveCall(serviceName, "ListMetricDescriptors", nil)

	return items, nil
}

// DeleteMetricDescriptor deletes the descriptor of the given custom metric
// along with its data.
func (c *Client) DeleteMetricDescriptor(ctx context.Context, name string) error {
	req := &monitoringpb.DeleteMetricDescriptorRequest{
		Name: fmt.Sprintf("%s/metricDescriptors/%s", c.projectName(), MetricType(name)),
	}

	err := c.client.DeleteMetricDescriptor(ctx, req)

	return c.wrap("DeleteMetricDescriptor", err)
}

// MetricType returns the fully-qualified custom metric type for the given
// name.
func MetricType(name string) string {
	if strings.HasPrefix(name, customMetricPrefix) {
		return name
	}

	return customMetricPrefix + name
}
