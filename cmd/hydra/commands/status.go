// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/daemon"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/render"
	"github.com/hydra-tracker/hydra/lib/service"
)

type statusParams struct {
	appParams
	cli.JSONOutput
}

func statusCommand() *cli.Command {
	var params statusParams
	return &cli.Command{
		Name:    "status",
		Summary: "Show whether the daemon is running",
		Description: `Ask the running daemon for its state: PID, uptime, today's progress
and the reminder schedule. Exits with status 1 when no daemon is
running.`,
		Usage: "hydra status [flags]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("status", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			cfg, err := loadConfig(params.appParams)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			status, err := daemon.NewClient(cfg.Paths.Socket).Status(ctx)
			if errors.Is(err, service.ErrNotRunning) {
				if done, jsonErr := params.EmitJSON(map[string]any{"running": false}); done {
					if jsonErr != nil {
						return jsonErr
					}
					return &cli.ExitError{Code: 1}
				}
				fmt.Fprintln(cli.Stdout, "Hydra daemon is not running. Start it with \"hydra serve\".")
				return &cli.ExitError{Code: 1}
			}
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(status); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "Daemon running (pid %d) since %s\n",
				status.PID, status.StartedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(cli.Stdout, "Today: %d / %d ml (%s)\n",
				status.Today.TotalML, status.Today.GoalML, render.FormatPercentage(status.Today.Percentage))
			switch {
			case status.Reminders == nil || !status.Reminders.Armed:
				fmt.Fprintln(cli.Stdout, "Reminders: off")
			default:
				fmt.Fprintf(cli.Stdout, "Reminders: every %s, next at %s\n",
					status.Reminders.Interval, status.Reminders.NextReminder.Local().Format("15:04"))
			}
			return nil
		},
	}
}
