// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/services/scheduler"
)

// NewSchedulerCommand returns the command for interfacing with Cloud
// Scheduler.
func NewSchedulerCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "scheduler",
		Usage: "scheduler operations",
		Subcommands: []*cli.Command{
			{
				Name:    "jobs",
				Usage:   "list jobs",
				Aliases: []string{"ls"},
				Action: func(ctx *cli.Context) error {
					client, err := newSchedulerClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					jobs, err := client.ListJobs(ctx.Context)
					if err != nil {
						return err
					}

					if len(jobs) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME", "SCHEDULE", "TIME-ZONE", "STATE"})
					for _, item := range jobs {
						table.Append([]string{
							item.Name,
							item.Schedule,
							item.TimeZone,
							item.State.String(),
						})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "put",
				Usage: "create or update a job",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "job name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "schedule",
						Usage:    "job schedule in cron format",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "time-zone",
						Usage: "time zone of the schedule",
						Value: scheduler.DefaultTimeZone,
					},
					&cli.StringFlag{
						Name:     "uri",
						Usage:    "HTTP endpoint to invoke",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "HTTP method to use",
						Value: "POST",
					},
					&cli.StringFlag{
						Name:  "body",
						Usage: "request body",
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSchedulerClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					job := scheduler.Job{
						Name:     ctx.String("name"),
						Schedule: ctx.String("schedule"),
						TimeZone: ctx.String("time-zone"),
						URI:      ctx.String("uri"),
						Method:   ctx.String("method"),
						Body:     []byte(ctx.String("body")),
					}

					_, err = client.PutJob(ctx.Context, job)

					return err
				},
			},
			{
				Name:    "delete",
				Usage:   "delete a job",
				Aliases: []string{"rm"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "job name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSchedulerClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.DeleteJob(ctx.Context, ctx.String("name"))
				},
			},
			{
				Name:  "pause",
				Usage: "pause a job",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "job name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSchedulerClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.PauseJob(ctx.Context, ctx.String("name"))
				},
			},
			{
				Name:  "resume",
				Usage: "resume a paused job",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "job name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newSchedulerClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.ResumeJob(ctx.Context, ctx.String("name"))
				},
			},
		},
	}

	return cmd
}

// newSchedulerClient creates a new Cloud Scheduler client from the
// configuration in the given context.
func newSchedulerClient(ctx *cli.Context) (*scheduler.Client, error) {
	conf, err := newServiceConfig(ctx, "scheduler")
	if err != nil {
		return nil, err
	}

	return scheduler.New(ctx.Context, conf)
}
