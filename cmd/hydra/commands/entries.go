// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/render"
	"github.com/hydra-tracker/hydra/lib/store"
)

type addParams struct {
	appParams
	cli.JSONOutput
}

type addResult struct {
	Entry intake.Entry      `json:"entry"`
	Today intake.DailyStats `json:"today"`
}

func addCommand() *cli.Command {
	var params addParams
	return &cli.Command{
		Name:    "add",
		Summary: "Log a drink",
		Description: `Log a drink of the given amount, timestamped now.

Amounts are millilitres; "ml" and "l" suffixes are accepted.`,
		Usage: "hydra add <amount> [flags]",
		Examples: []cli.Example{
			{Description: "Log a glass of water", Command: "hydra add 250"},
			{Description: "Log a bottle", Command: "hydra add 0.5l"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("add", &params) },
		Run: func(args []string) error {
			if len(args) != 1 {
				return intake.Validation("usage: hydra add <amount>")
			}
			amountML, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				entry, err := a.tracker.AddWater(ctx, amountML)
				if err != nil {
					return err
				}
				today, err := a.tracker.TodayStats(ctx)
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(addResult{Entry: entry, Today: today}); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "Added %d ml (#%d). Today: %d / %d ml (%s)\n",
					entry.AmountML, entry.ID, today.TotalML, today.GoalML, render.FormatPercentage(today.Percentage))
				return nil
			})
		},
	}
}

// parseAmount accepts "250", "250ml" and "0.5l".
func parseAmount(text string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	multiplier := 1.0
	switch {
	case strings.HasSuffix(normalized, "ml"):
		normalized = strings.TrimSuffix(normalized, "ml")
	case strings.HasSuffix(normalized, "l"):
		normalized = strings.TrimSuffix(normalized, "l")
		multiplier = 1000
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(normalized), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, intake.Validation("invalid amount %q", text)
	}
	amountML := int(math.Round(value * multiplier))
	if err := intake.ValidateAmount(amountML); err != nil {
		return 0, err
	}
	return amountML, nil
}

type removeParams struct {
	appParams
}

func removeCommand() *cli.Command {
	var params removeParams
	return &cli.Command{
		Name:    "remove",
		Summary: "Delete an entry by id",
		Description: `Delete one logged entry. Entry ids are shown by "hydra today" and
"hydra entries".`,
		Usage:    "hydra remove <id>",
		Examples: []cli.Example{{Description: "Undo entry #12", Command: "hydra remove 12"}},
		Flags:    func() *pflag.FlagSet { return cli.FlagsFromParams("remove", &params) },
		Run: func(args []string) error {
			if len(args) != 1 {
				return intake.Validation("usage: hydra remove <id>")
			}
			id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil || id <= 0 {
				return intake.Validation("invalid entry id %q", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				if err := a.tracker.RemoveEntry(ctx, id); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("no entry #%d", id)
					}
					return err
				}
				fmt.Fprintf(cli.Stdout, "Removed entry #%d\n", id)
				return nil
			})
		},
	}
}

type todayParams struct {
	appParams
	cli.JSONOutput
}

type todayResult struct {
	Stats   intake.DailyStats `json:"stats"`
	Entries []intake.Entry    `json:"entries"`
}

func todayCommand() *cli.Command {
	var params todayParams
	return &cli.Command{
		Name:    "today",
		Summary: "Show today's progress and entries",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("today", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				stats, err := a.tracker.TodayStats(ctx)
				if err != nil {
					return err
				}
				entries, err := a.tracker.TodayEntries(ctx)
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(todayResult{Stats: stats, Entries: entries}); done {
					return err
				}
				renderer, err := a.renderer(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cli.Stdout, renderer.Today(stats, entries))
				return nil
			})
		},
	}
}

type entriesParams struct {
	appParams
	cli.JSONOutput
	Date string `json:"date" flag:"date" desc:"day to list, YYYY-MM-DD (default: today)"`
}

func entriesCommand() *cli.Command {
	var params entriesParams
	return &cli.Command{
		Name:    "entries",
		Summary: "List the entries of one day",
		Usage:   "hydra entries [--date YYYY-MM-DD]",
		Examples: []cli.Example{
			{Description: "Entries logged on May 3rd", Command: "hydra entries --date 2026-05-03"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("entries", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				day := a.tracker.Today()
				if params.Date != "" {
					parsed, err := intake.ParseDay(params.Date)
					if err != nil {
						return intake.Validation("invalid --date: %v", err)
					}
					day = parsed
				}
				entries, err := a.store.EntriesOn(ctx, day)
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(entries); done {
					return err
				}
				renderer, err := a.renderer(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cli.Stdout, renderer.Entries(entries))
				return nil
			})
		},
	}
}
