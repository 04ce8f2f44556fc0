// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/services/storage"
)

// NewStorageCommand returns the command for interfacing with Cloud Storage.
func NewStorageCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "storage",
		Usage:   "storage operations",
		Aliases: []string{"gs"},
		Subcommands: []*cli.Command{
			{
				Name:    "buckets",
				Usage:   "list buckets",
				Aliases: []string{"b"},
				Action: func(ctx *cli.Context) error {
					client, err := newStorageClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					buckets, err := client.ListBuckets(ctx.Context)
					if err != nil {
						return err
					}

					if len(buckets) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME", "LOCATION", "CREATED-AT"})
					for _, item := range buckets {
						table.Append([]string{item.Name, item.Location, item.Created.String()})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:    "list",
				Usage:   "list objects in a bucket",
				Aliases: []string{"ls"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "bucket name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "object name prefix",
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newStorageClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					objects, err := client.ListObjects(ctx.Context, ctx.String("bucket"), ctx.String("prefix"))
					if err != nil {
						return err
					}

					if len(objects) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME", "SIZE", "UPDATED-AT"})
					for _, item := range objects {
						table.Append([]string{item.Name, strconv.FormatInt(item.Size, 10), item.Updated.String()})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "upload",
				Usage: "upload a file to a bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "bucket name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "object",
						Usage:    "object name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "path",
						Usage:    "path to local file",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newStorageClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					f, err := os.Open(ctx.String("path"))
					if err != nil {
						return err
					}
					defer f.Close()

					attrs, err := client.Upload(ctx.Context, ctx.String("bucket"), ctx.String("object"), f)
					if err != nil {
						return err
					}

					fmt.Println(storage.URI(attrs.Bucket, attrs.Name))

					return nil
				},
			},
			{
				Name:  "download",
				Usage: "download an object to a local file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "bucket name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "object",
						Usage:    "object name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "path",
						Usage:    "path to local file",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newStorageClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					f, err := os.Create(ctx.String("path"))
					if err != nil {
						return err
					}
					defer f.Close()

					_, err = client.Download(ctx.Context, ctx.String("bucket"), ctx.String("object"), f)

					return err
				},
			},
			{
				Name:    "delete",
				Usage:   "delete an object",
				Aliases: []string{"rm"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "bucket name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "object",
						Usage:    "object name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newStorageClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.Delete(ctx.Context, ctx.String("bucket"), ctx.String("object"))
				},
			},
		},
	}

	return cmd
}

// newStorageClient creates a new Cloud Storage client from the configuration
// in the given context.
func newStorageClient(ctx *cli.Context) (*storage.Client, error) {
	conf, err := newServiceConfig(ctx, "storage")
	if err != nil {
		return nil, err
	}

	return storage.New(ctx.Context, conf)
}
