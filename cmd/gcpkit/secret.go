// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/services/secretmanager"
)

// NewSecretCommand returns the command for interfacing with Secret Manager.
func NewSecretCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "secret",
		Usage: "secret operations",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "list secrets",
				Aliases: []string{"ls"},
				Action: func(ctx *cli.Context) error {
					client, err := newSecretClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					secrets, err := client.ListSecrets(ctx.Context)
					if err != nil {
						return err
					}

					if len(secrets) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME"})
					for _, item := range secrets {
						table.Append([]string{item})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "get",
				Usage: "get the latest version of a secret",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "secret name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "version",
						Usage: "secret version",
						Value: secretmanager.LatestVersion,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSecretClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					payload, err := client.GetSecretVersion(ctx.Context, ctx.String("name"), ctx.String("version"))
					if err != nil {
						return err
					}

					fmt.Println(string(payload))

					return nil
				},
			},
			{
				Name:  "set",
				Usage: "set the value of a secret",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "secret name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "value",
						Usage: "secret value, read from stdin when not given",
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSecretClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					payload := []byte(ctx.String("value"))
					if len(payload) == 0 {
						payload, err = io.ReadAll(os.Stdin)
						if err != nil {
							return err
						}
					}

					return client.SetSecret(ctx.Context, ctx.String("name"), payload)
				},
			},
			{
				Name:    "delete",
				Usage:   "delete a secret",
				Aliases: []string{"rm"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "secret name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSecretClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.DeleteSecret(ctx.Context, ctx.String("name"))
				},
			},
		},
	}

	return cmd
}

// newSecretClient creates a new Secret Manager client from the configuration
// in the given context.
func newSecretClient(ctx *cli.Context) (*secretmanager.Client, error) {
	conf, err := newServiceConfig(ctx, "secretmanager")
	if err != nil {
		return nil, err
	}

	return secretmanager.New(ctx.Context, conf)
}
