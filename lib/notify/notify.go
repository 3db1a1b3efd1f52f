// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Message is one notification.
type Message struct {
	Title string
	Body  string

	// Sound asks the notification daemon to play its message sound.
	// Daemons that do not support sound hints ignore it.
	Sound bool
}

// Notifier delivers notifications.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// CommandRunner runs an external command to completion. The default
// runs it with os/exec and folds stderr into the error.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// NotifySend delivers notifications with notify-send.
type NotifySend struct {
	command string
	appName string
	run     CommandRunner
	logger  *slog.Logger
}

// NotifySendConfig holds the parameters for NewNotifySend.
type NotifySendConfig struct {
	// Command defaults to "notify-send".
	Command string

	// AppName defaults to "Hydra".
	AppName string

	// Run defaults to executing the command with os/exec.
	Run CommandRunner

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// NewNotifySend returns a notifier. It does not check that the
// command exists; use Available for that.
func NewNotifySend(cfg NotifySendConfig) *NotifySend {
	notifier := &NotifySend{
		command: cfg.Command,
		appName: cfg.AppName,
		run:     cfg.Run,
		logger:  cfg.Logger,
	}
	if notifier.command == "" {
		notifier.command = "notify-send"
	}
	if notifier.appName == "" {
		notifier.appName = "Hydra"
	}
	if notifier.run == nil {
		notifier.run = runCommand
	}
	if notifier.logger == nil {
		notifier.logger = slog.New(slog.DiscardHandler)
	}
	return notifier
}

// Available reports whether the delivery command is on PATH.
func (n *NotifySend) Available() bool {
	_, err := exec.LookPath(n.command)
	return err == nil
}

// Send delivers one notification and waits for notify-send to exit.
func (n *NotifySend) Send(ctx context.Context, message Message) error {
	args := []string{"--app-name=" + n.appName, "--urgency=normal"}
	if message.Sound {
		args = append(args, "--hint=string:sound-name:message-new-instant")
	}
	args = append(args, "--", message.Title, message.Body)

	if err := n.run(ctx, n.command, args...); err != nil {
		return fmt.Errorf("notify: sending %q: %w", message.Title, err)
	}
	n.logger.Debug("notification sent", "title", message.Title, "sound", message.Sound)
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	command := exec.CommandContext(ctx, name, args...)
	output, err := command.CombinedOutput()
	if err != nil {
		if detail := strings.TrimSpace(string(output)); detail != "" {
			return fmt.Errorf("%s: %w: %s", name, err, detail)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
