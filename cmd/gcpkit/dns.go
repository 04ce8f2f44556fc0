// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/services/dns"
)

// NewDNSCommand returns the command for interfacing with Cloud DNS.
func NewDNSCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "dns",
		Usage: "dns operations",
		Subcommands: []*cli.Command{
			{
				Name:  "zones",
				Usage: "list managed zones",
				Action: func(ctx *cli.Context) error {
					client, err := newDNSClient(ctx)
					if err != nil {
						return err
					}

					zones, err := client.ListZones(ctx.Context)
					if err != nil {
						return err
					}

					if len(zones) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME", "DNS-NAME", "DESCRIPTION"})
					for _, item := range zones {
						description := item.Description
						if description == "" {
							description = na
						}
						table.Append([]string{item.Name, item.DnsName, description})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "records",
				Usage: "list records of a managed zone",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "zone",
						Usage:    "managed zone name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newDNSClient(ctx)
					if err != nil {
						return err
					}

					records, err := client.ListRecords(ctx.Context, ctx.String("zone"))
					if err != nil {
						return err
					}

					if len(records) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME", "TYPE", "TTL", "DATA"})
					for _, item := range records {
						table.Append([]string{
							item.Name,
							item.Type,
							strconv.FormatInt(item.Ttl, 10),
							strings.Join(item.Rrdatas, ","),
						})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "add-record",
				Usage: "add a record to a managed zone",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "zone",
						Usage:    "managed zone name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "record name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "type",
						Usage:    "record type, e.g. A or CNAME",
						Required: true,
					},
					&cli.Int64Flag{
						Name:  "ttl",
						Usage: "record TTL in seconds",
						Value: 300,
					},
					&cli.StringSliceFlag{
						Name:     "data",
						Usage:    "record data, may be repeated",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newDNSClient(ctx)
					if err != nil {
						return err
					}

					return client.AddRecord(
						ctx.Context,
						ctx.String("zone"),
						ctx.String("name"),
						ctx.String("type"),
						ctx.Int64("ttl"),
						ctx.StringSlice("data"),
					)
				},
			},
			{
				Name:  "delete-record",
				Usage: "delete a record from a managed zone",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "zone",
						Usage:    "managed zone name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "record name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "type",
						Usage:    "record type, e.g. A or CNAME",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newDNSClient(ctx)
					if err != nil {
						return err
					}

					return client.DeleteRecord(ctx.Context, ctx.String("zone"), ctx.String("name"), ctx.String("type"))
				},
			},
		},
	}

	return cmd
}

// newDNSClient creates a new Cloud DNS client from the configuration in the
// given context.
func newDNSClient(ctx *cli.Context) (*dns.Client, error) {
	conf, err := newServiceConfig(ctx, "dns")
	if err != nil {
		return nil, err
	}

	return dns.New(ctx.Context, conf)
}
