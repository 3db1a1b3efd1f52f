// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/notify"
)

func (a *app) notifier() *notify.NotifySend {
	return notify.NewNotifySend(notify.NotifySendConfig{
		Command: a.config.Notifications.Command,
		AppName: a.config.Notifications.AppName,
		Logger:  a.logger,
	})
}

func (a *app) permissions(notifier *notify.NotifySend) *notify.StoredPermissions {
	return notify.NewStoredPermissions(a.store, notifier.Available, a.logger)
}

func notificationsCommand() *cli.Command {
	status := notificationsStatusCommand()
	return &cli.Command{
		Name:    "notifications",
		Summary: "Manage the notification permission",
		Description: `Show or change whether Hydra may show reminder notifications.

The permission is asked for once, the first time reminders are armed,
and granted automatically when the notification command is installed.
"deny" keeps reminders off until "allow" or "reset".`,
		Subcommands: []*cli.Command{
			status,
			notificationsSetCommand("allow", "Allow reminder notifications", intake.PermissionGranted),
			notificationsSetCommand("deny", "Refuse reminder notifications", intake.PermissionRefused),
			notificationsSetCommand("reset", "Forget the answer and ask again", intake.PermissionUnknown),
			notificationsTestCommand(),
		},
		Flags: status.Flags,
		Run:   status.Run,
	}
}

type notificationsStatusParams struct {
	appParams
	cli.JSONOutput
}

type notificationsStatus struct {
	Permission string `json:"permission"`
	Command    string `json:"command"`
	Available  bool   `json:"available"`
}

func notificationsStatusCommand() *cli.Command {
	var params notificationsStatusParams
	return &cli.Command{
		Name:    "status",
		Summary: "Show the permission on record",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("status", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				notifier := a.notifier()
				permission, err := a.permissions(notifier).Current(ctx)
				if err != nil {
					return err
				}
				status := notificationsStatus{
					Permission: permissionLabel(permission),
					Command:    a.config.Notifications.Command,
					Available:  notifier.Available(),
				}
				if done, err := params.EmitJSON(status); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "Permission: %s\n", status.Permission)
				availability := "found"
				if !status.Available {
					availability = "not found on PATH"
				}
				fmt.Fprintf(cli.Stdout, "Command:    %s (%s)\n", status.Command, availability)
				return nil
			})
		},
	}
}

func permissionLabel(permission intake.Permission) string {
	if permission == intake.PermissionUnknown {
		return "not asked yet"
	}
	return string(permission)
}

type notificationsSetParams struct {
	appParams
}

func notificationsSetCommand(name, summary string, permission intake.Permission) *cli.Command {
	var params notificationsSetParams
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams(name, &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				if err := a.permissions(a.notifier()).Set(ctx, permission); err != nil {
					return err
				}
				fmt.Fprintf(cli.Stdout, "Notification permission: %s\n", permissionLabel(permission))
				a.notifyDaemon(ctx)
				return nil
			})
		},
	}
}

type notificationsTestParams struct {
	appParams
}

func notificationsTestCommand() *cli.Command {
	var params notificationsTestParams
	return &cli.Command{
		Name:    "test",
		Summary: "Send a test notification",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("test", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				current, err := a.tracker.Settings(ctx)
				if err != nil {
					return err
				}
				message := notify.Message{
					Title: "Time to drink water",
					Body:  "This is what a Hydra reminder looks like.",
					Sound: current.SoundEnabled,
				}
				if err := a.notifier().Send(ctx, message); err != nil {
					return intake.OSIntegration("sending test notification: %w", err)
				}
				fmt.Fprintln(cli.Stdout, "Notification sent")
				return nil
			})
		},
	}
}
