// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/intake"
)

type monthParams struct {
	appParams
	cli.JSONOutput
}

func monthCommand() *cli.Command {
	var params monthParams
	return &cli.Command{
		Name:    "month",
		Summary: "Show a month's daily totals and streaks",
		Description: `Show every day of a month that has entries, the month total and
average, how many days reached the goal, and the current and best
streaks of consecutive goal days.`,
		Usage: "hydra month [YYYY-MM]",
		Examples: []cli.Example{
			{Description: "This month", Command: "hydra month"},
			{Description: "March 2026 as JSON", Command: "hydra month 2026-03 --json"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("month", &params) },
		Run: func(args []string) error {
			if len(args) > 1 {
				return intake.Validation("usage: hydra month [YYYY-MM]")
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				today := a.tracker.Today()
				year, month := today.Year, today.Month
				if len(args) == 1 {
					var err error
					if year, month, err = parseMonth(args[0]); err != nil {
						return err
					}
				}
				monthly, err := a.tracker.MonthlyStats(ctx, year, month)
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(monthly); done {
					return err
				}
				renderer, err := a.renderer(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cli.Stdout, renderer.Month(monthly))
				return nil
			})
		},
	}
}

// parseMonth reads "YYYY-MM".
func parseMonth(text string) (int, time.Month, error) {
	parsed, err := time.Parse("2006-01", text)
	if err != nil {
		return 0, 0, intake.Validation("invalid month %q, want YYYY-MM", text)
	}
	return parsed.Year(), parsed.Month(), nil
}

type yearParams struct {
	appParams
	cli.JSONOutput
}

type yearResult struct {
	Year   int                   `json:"year"`
	Months []intake.MonthlyStats `json:"months"`
}

func yearCommand() *cli.Command {
	var params yearParams
	return &cli.Command{
		Name:    "year",
		Summary: "Show the twelve monthly totals of a year",
		Usage:   "hydra year [YYYY]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("year", &params) },
		Run: func(args []string) error {
			if len(args) > 1 {
				return intake.Validation("usage: hydra year [YYYY]")
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				year := a.tracker.Today().Year
				if len(args) == 1 {
					parsed, err := strconv.Atoi(args[0])
					if err != nil || parsed < 1 || parsed > 9999 {
						return intake.Validation("invalid year %q", args[0])
					}
					year = parsed
				}
				months, err := a.tracker.YearlyOverview(ctx, year)
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(yearResult{Year: year, Months: months}); done {
					return err
				}
				renderer, err := a.renderer(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cli.Stdout, renderer.Year(year, months))
				return nil
			})
		},
	}
}
