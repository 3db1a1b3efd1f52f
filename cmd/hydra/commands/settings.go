// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/intake"
)

func settingsCommand() *cli.Command {
	show := settingsShowCommand()
	return &cli.Command{
		Name:        "settings",
		Summary:     "Show or change settings",
		Subcommands: []*cli.Command{show, settingsSetCommand()},
		Flags:       show.Flags,
		Run:         show.Run,
	}
}

type settingsShowParams struct {
	appParams
	cli.JSONOutput
}

func settingsShowCommand() *cli.Command {
	var params settingsShowParams
	return &cli.Command{
		Name:    "show",
		Summary: "Print the current settings",
		Description: `Print the current settings. The autostart setting is first
reconciled with the desktop's autostart directory, which wins when the
two disagree.`,
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("show", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				current, err := a.settings.Reconcile(ctx)
				if err != nil && !intake.IsKind(err, intake.KindOSIntegration) {
					return err
				}
				if err != nil {
					a.logger.Warn("could not read autostart state", "error", err)
				}
				if done, err := params.EmitJSON(current); done {
					return err
				}
				renderer, err := a.renderer(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cli.Stdout, renderer.Settings(current))
				return nil
			})
		},
	}
}

type settingsSetParams struct {
	appParams
	cli.JSONOutput
	Goal      int    `json:"daily_goal_ml"             flag:"goal"      desc:"daily goal in ml"`
	Interval  int    `json:"reminder_interval_minutes" flag:"interval"  desc:"minutes between reminders"`
	Reminders string `json:"reminder_enabled"          flag:"reminders" desc:"on or off"`
	Sound     string `json:"sound_enabled"             flag:"sound"     desc:"on or off"`
	Autostart string `json:"start_with_system"         flag:"autostart" desc:"on or off: start the daemon at login"`
	Theme     string `json:"theme"                     flag:"theme"     desc:"dark or light"`
}

func settingsSetCommand() *cli.Command {
	var params settingsSetParams
	var flagSet *pflag.FlagSet
	return &cli.Command{
		Name:    "set",
		Summary: "Change one or more settings",
		Description: `Change settings. Only the flags given are changed; everything is
validated before anything is saved.

Turning autostart on or off edits the desktop autostart entry first and
saves the setting only if that worked. A running daemon is told to
re-arm its reminders.`,
		Usage: "hydra settings set [flags]",
		Examples: []cli.Example{
			{Description: "Drink 3 litres a day, reminded every 45 minutes", Command: "hydra settings set --goal 3000 --interval 45"},
			{Description: "Start the reminder daemon at login", Command: "hydra settings set --autostart on"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("set", &params)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			patch, err := settingsPatch(params, flagSet.Changed)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return intake.Validation("nothing to change; see 'hydra settings set --help'")
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				updated, err := a.tracker.ApplySettingsChange(ctx, patch)
				if err != nil {
					return err
				}
				if patch.ReminderEnabled != nil || patch.ReminderIntervalMinutes != nil || patch.SoundEnabled != nil {
					a.notifyDaemon(ctx)
				}
				if done, err := params.EmitJSON(updated); done {
					return err
				}
				renderer, err := a.renderer(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cli.Stdout, renderer.Settings(updated))
				return nil
			})
		},
	}
}

// settingsPatch builds a patch from the flags the user actually set.
func settingsPatch(params settingsSetParams, changed func(string) bool) (intake.SettingsPatch, error) {
	var patch intake.SettingsPatch
	if changed("goal") {
		patch.DailyGoalML = &params.Goal
	}
	if changed("interval") {
		patch.ReminderIntervalMinutes = &params.Interval
	}
	switches := []struct {
		flag   string
		value  string
		target **bool
	}{
		{"reminders", params.Reminders, &patch.ReminderEnabled},
		{"sound", params.Sound, &patch.SoundEnabled},
		{"autostart", params.Autostart, &patch.StartWithSystem},
	}
	for _, option := range switches {
		if !changed(option.flag) {
			continue
		}
		enabled, err := parseSwitch(option.value)
		if err != nil {
			return intake.SettingsPatch{}, intake.Validation("--%s: %v", option.flag, err)
		}
		*option.target = &enabled
	}
	if changed("theme") {
		theme := intake.Theme(strings.ToLower(params.Theme))
		patch.Theme = &theme
	}
	return patch, nil
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", value)
}
