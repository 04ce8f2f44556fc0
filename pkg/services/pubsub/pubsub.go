// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package pubsub provides a thin client for the Google Cloud Pub/Sub
// service.
package pubsub

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gcps "cloud.google.com/go/pubsub"
	"google.golang.org/api/iterator"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "pubsub"

// Client is a thin wrapper over the Pub/Sub SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *gcps.Client
}

// New creates a new Pub/Sub client. When conf is nil, a default config with
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

	c, err := gcps.NewClient(ctx, conf.ProjectID, conf.ClientOptions()...)
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

// CreateTopic creates a new topic with the given id.
func (c *Client) CreateTopic(ctx context.Context, topic string) error {
	_, err := c.client.CreateTopic(ctx, topic)

	return c.wrap("CreateTopic", err)
}

// DeleteTopic deletes the topic with the given id.
func (c *Client) DeleteTopic(ctx context.Context, topic string) error {
	err := c.client.Topic(topic).Delete(ctx)

	return c.wrap("DeleteTopic", err)
}

// ListTopics returns the ids of the topics in the configured project.
func (c *Client) ListTopics(ctx context.Context) ([]string, error) {
	items := make([]string, 0)
	iter := c.client.Topics(ctx)
	for {
		topic, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, c.wrap("ListTopics", err)
		}

		items = append(items, topic.ID())
	}

	metrics.ObserveCall(serviceName, "ListTopics", nil)

	return items, nil
}

// Publish publishes a message with the given data and optional attributes to
// the topic and returns the server-assigned message id.
func (c *Client) Publish(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error) {
	t := c.client.Topic(topic)
	defer t.Stop()

	msg := &gcps.Message{
		Data:       data,
		Attributes: attributes,
	}

	id, err := t.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", c.wrap("Publish", err)
	}

	c.logger.Debug("published message", "topic", topic, "message_id", id)
	metrics.ObserveCall(serviceName, "Publish", nil)

	return id, nil
}

// CreateSubscription creates a new pull subscription for the given topic.
func (c *Client) CreateSubscription(ctx context.Context, subscription string, topic string, ackDeadline time.Duration) error {
	cfg := gcps.SubscriptionConfig{
		Topic:       c.client.Topic(topic),
		AckDeadline: ackDeadline,
	}

	_, err := c.client.CreateSubscription(ctx, subscription, cfg)

	return c.wrap("CreateSubscription", err)
}

// DeleteSubscription deletes the subscription with the given id.
func (c *Client) DeleteSubscription(ctx context.Context, subscription string) error {
	err := c.client.Subscription(subscription).Delete(ctx)

	return c.wrap("DeleteSubscription", err)
}

// Subscribe blocks and invokes handler for each message received on the
// subscription, until ctx is cancelled or an unrecoverable error occurs.
// Message acknowledgement is up to the handler.
func (c *Client) Subscribe(ctx context.Context, subscription string, handler func(ctx context.Context, msg *gcps.Message)) error {
	sub := c.client.Subscription(subscription)

	err := sub.Receive(ctx, handler)

	return c.wrap("Subscribe", err)
}
