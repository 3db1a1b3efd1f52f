// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands implements the hydra command tree.
package commands

import "github.com/hydra-tracker/hydra/cmd/hydra/cli"

// Root returns the top-level hydra command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "hydra",
		Summary: "Track daily water intake",
		Description: `Hydra logs what you drink, shows progress against a daily goal,
and reminds you to drink at a fixed interval.

Data lives in a local SQLite database. "hydra serve" runs the
reminder daemon; every other command works with or without it.`,
		Usage: "hydra <command> [flags]",
		Examples: []cli.Example{
			{Description: "Log a glass and see today's progress", Command: "hydra add 250 && hydra today"},
			{Description: "Set the goal and reminder interval", Command: "hydra settings set --goal 3000 --interval 45"},
			{Description: "Run the daemon at login", Command: "hydra settings set --autostart on"},
		},
		Subcommands: []*cli.Command{
			addCommand(),
			quickCommand(),
			removeCommand(),
			todayCommand(),
			entriesCommand(),
			monthCommand(),
			yearCommand(),
			settingsCommand(),
			notificationsCommand(),
			exportCommand(),
			importCommand(),
			serveCommand(),
			statusCommand(),
			dashboardCommand(),
			versionCommand(),
		},
	}
}
