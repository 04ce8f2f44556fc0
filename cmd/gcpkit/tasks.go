// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gcpkit/gcpkit/pkg/services/cloudtasks"
)

// NewTasksCommand returns the command for interfacing with Cloud Tasks.
func NewTasksCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "tasks",
		Usage: "task operations",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "list tasks in a queue",
				Aliases: []string{"ls"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "queue",
						Usage:    "queue name",
						Required: true,
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newTasksClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					tasks, err := client.ListTasks(ctx.Context, ctx.String("queue"))
					if err != nil {
						return err
					}

					if len(tasks) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME", "DISPATCH-COUNT", "SCHEDULE-TIME"})
					for _, item := range tasks {
						scheduleTime := na
						if item.ScheduleTime != nil {
							scheduleTime = item.ScheduleTime.AsTime().String()
						}
						table.Append([]string{
							item.Name,
							fmt.Sprintf("%d", item.DispatchCount),
							scheduleTime,
						})
					}

					table.Render()

					return nil
				},
			},
			{
				Name:  "push",
				Usage: "push a task to a queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "queue",
						Usage:    "queue name",
						Required: true,
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
					&cli.BoolFlag{
						Name:  "create-queue",
						Usage: "create the queue, if it does not exist",
					},
				},
				Action: func(ctx *cli.Context) error {
					opts := make([]cloudtasks.Option, 0)
					if ctx.Bool("create-queue") {
						opts = append(opts, cloudtasks.WithAutoCreateQueue())
					}

					client, err := newTasksClient(ctx, opts...)
					if err != nil {
						return err
					}
					defer client.Close()

					task := cloudtasks.Task{
						Queue:  ctx.String("queue"),
						URI:    ctx.String("uri"),
						Method: ctx.String("method"),
						Body:   []byte(ctx.String("body")),
					}

					out, err := client.Push(ctx.Context, task)
					if err != nil {
						return err
					}

					fmt.Println(out.Name)

					return nil
				},
			},
			{
				Name:    "delete",
				Usage:   "delete a task from a queue",
				Aliases: []string{"rm"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "queue",
						Usage:    "queue name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "task",
						Usage:    "task name",
						Required: true,
						Aliases:  []string{"name"},
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newTasksClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					return client.DeleteTask(ctx.Context, ctx.String("queue"), ctx.String("task"))
				},
			},
			{
				Name:  "create-queue",
				Usage: "create a new queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "queue",
						Usage:    "queue name",
						Required: true,
						Aliases:  []string{"name"},
					},
				},
				Action: func(ctx *cli.Context) error {
					client, err := newTasksClient(ctx)
					if err != nil {
						return err
					}
					defer client.Close()

					_, err = client.CreateQueue(ctx.Context, ctx.String("queue"))

					return err
				},
			},
		},
	}

	return cmd
}

// newTasksClient creates a new Cloud Tasks client from the configuration in
// the given context.
func newTasksClient(ctx *cli.Context, opts ...cloudtasks.Option) (*cloudtasks.Client, error) {
	conf, err := newServiceConfig(ctx, "cloudtasks")
	if err != nil {
		return nil, err
	}

	return cloudtasks.New(ctx.Context, conf, opts...)
}
