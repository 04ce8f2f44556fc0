// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/core/config"
	slogutils "github.com/gcpkit/gcpkit/pkg/utils/slog"
	"github.com/gcpkit/gcpkit/pkg/version"
)

func main() {
	app := &cli.App{
		Name:                 "gcpkit",
		Version:              version.Version,
		EnableBashCompletion: true,
		Usage:                "command-line tool for managing Google Cloud resources",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enables debug mode, if set",
				Value: false,
			},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "path to config file",
				Required: true,
				Aliases:  []string{"file"},
				EnvVars:  []string{"GCPKIT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "project",
				Usage:   "GCP project id",
				EnvVars: []string{"GOOGLE_CLOUD_PROJECT"},
			},
			&cli.StringFlag{
				Name:    "location",
				Usage:   "GCP location/region",
				EnvVars: []string{"GOOGLE_CLOUD_LOCATION"},
			},
		},
		Before: func(ctx *cli.Context) error {
			configFile := ctx.String("config")
			conf, err := config.Parse(configFile)
			if err != nil {
				return fmt.Errorf("cannot parse config: %w", err)
			}

			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			// Overrides from flags/options
			if ctx.IsSet("debug") {
				conf.Debug = ctx.Bool("debug")
			}

			if ctx.IsSet("project") {
				conf.Project = ctx.String("project")
			}

			if ctx.IsSet("location") {
				conf.Location = ctx.String("location")
			}

			logger, err := slogutils.NewFromConfig(os.Stderr, conf)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx.Context = context.WithValue(ctx.Context, configKey{}, conf)

			return nil
		},
		Commands: []*cli.Command{
			NewStorageCommand(),
			NewPubSubCommand(),
			NewSecretCommand(),
			NewDNSCommand(),
			NewTasksCommand(),
			NewSchedulerCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
