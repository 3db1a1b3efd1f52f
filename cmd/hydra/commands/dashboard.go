// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/dashboard"
	"github.com/hydra-tracker/hydra/lib/intake"
)

type dashboardParams struct {
	appParams
}

func dashboardCommand() *cli.Command {
	var params dashboardParams
	return &cli.Command{
		Name:    "dashboard",
		Summary: "Open the interactive today view",
		Description: `Open a full-screen view of today's progress and entries. Press 1 or
2 to log 250 or 500 ml, u to undo the last entry, q to quit. The view
refreshes every 30 seconds, so entries logged elsewhere show up.`,
		Usage: "hydra dashboard",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("dashboard", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			// Log output would corrupt the alternate screen.
			a, err := openApp(ctx, params.appParams, cli.NewCommandLogger(slog.LevelError))
			if err != nil {
				return err
			}
			defer a.Close()

			renderer, err := a.renderer(ctx)
			if err != nil {
				return err
			}
			model := dashboard.NewModel(ctx, a.tracker, renderer)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(os.Stdout))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			return nil
		},
	}
}
