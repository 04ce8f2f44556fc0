// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/services/pubsub"
)

// NewPubSubCommand returns the command for interfacing with Pub/Sub.
func NewPubSubCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "pubsub",
		Usage: "pub/sub operations",
		Subcommands: []*cli.Command{
			{
				Name:    "topics",
				Usage:   "list topics",
				Aliases: []string{"ls"},
				Action: func(ctx *cli.Context) error {
					client, err := newPubSubClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					topics, err := client.ListTopics(ctx.Context)
					if err != nil {
						return err
					}

					if len(topics) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME"})
					for _, item := range topics {
						table.Append([]string{item})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "create-topic",
				Usage: "create a new topic",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "topic",
						Usage:    "topic name",
						Required: true,
						Aliases:  []string{"name"},
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newPubSubClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.CreateTopic(ctx.Context, ctx.String("topic"))
				},
			},
			{
				Name:  "delete-topic",
				Usage: "delete a topic",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "topic",
						Usage:    "topic name",
						Required: true,
						Aliases:  []string{"name"},
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newPubSubClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.DeleteTopic(ctx.Context, ctx.String("topic"))
				},
			},
			{
				Name:  "publish",
				Usage: "publish a message to a topic",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "topic",
						Usage:    "topic name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Usage:    "message payload",
						Required: true,
						Aliases:  []string{"m"},
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newPubSubClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					id, err := client.Publish(ctx.Context, ctx.String("topic"), []byte(ctx.String("message")), nil)
					if err != nil {
						return err
					}

					fmt.Println(id)

					return nil
				},
			},
		},
	}

	return cmd
}

// newPubSubClient creates a new Pub/Sub client from the configuration in the
// given context.
func newPubSubClient(ctx *cli.Context) (*pubsub.Client, error) {
	conf, err := newServiceConfig(ctx, "pubsub")
	if err != nil {
		return nil, err
	}

	return pubsub.New(ctx.Context, conf)
}
