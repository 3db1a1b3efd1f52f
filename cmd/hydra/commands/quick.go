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
	"github.com/hydra-tracker/hydra/lib/service"
)

// quickAmounts are the one-tap amounts of the quick-add menu.
var quickAmounts = map[string]int{
	"glass":  250,
	"bottle": 500,
}

type quickParams struct {
	appParams
	cli.JSONOutput
}

func quickCommand() *cli.Command {
	var params quickParams
	return &cli.Command{
		Name:    "quick",
		Summary: "Log a glass (250 ml) or bottle (500 ml)",
		Description: `Log a preset amount. The entry goes through the running daemon when
there is one, and straight to the database otherwise.`,
		Usage: "hydra quick [glass|bottle]",
		Examples: []cli.Example{
			{Description: "Log a glass", Command: "hydra quick"},
			{Description: "Log a bottle", Command: "hydra quick bottle"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("quick", &params) },
		Run: func(args []string) error {
			if len(args) > 1 {
				return intake.Validation("usage: hydra quick [glass|bottle]")
			}
			preset := "glass"
			if len(args) == 1 {
				preset = args[0]
			}
			amountML, ok := quickAmounts[preset]
			if !ok {
				return intake.Validation("unknown preset %q (want glass or bottle)", preset)
			}

			cfg, err := loadConfig(params.appParams)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			entry, err := daemon.NewClient(cfg.Paths.Socket).QuickAdd(ctx, amountML)
			if errors.Is(err, service.ErrNotRunning) {
				return withApp(params.appParams, func(ctx context.Context, a *app) error {
					entry, err := a.tracker.AddWater(ctx, amountML)
					if err != nil {
						return err
					}
					return printQuick(params, entry)
				})
			}
			if err != nil {
				return err
			}
			return printQuick(params, entry)
		},
	}
}

func printQuick(params quickParams, entry intake.Entry) error {
	if done, err := params.EmitJSON(entry); done {
		return err
	}
	fmt.Fprintf(cli.Stdout, "Added %d ml (#%d)\n", entry.AmountML, entry.ID)
	return nil
}
