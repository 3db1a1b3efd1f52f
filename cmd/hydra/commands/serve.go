// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/clock"
	"github.com/hydra-tracker/hydra/lib/daemon"
	"github.com/hydra-tracker/hydra/lib/instance"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/reminder"
	"github.com/hydra-tracker/hydra/lib/service"
)

type serveParams struct {
	appParams
	Hidden    bool   `json:"hidden"     flag:"hidden"     desc:"start without a banner and exit quietly if a daemon is already running"`
	LogOutput string `json:"log_output" flag:"log-output" desc:"append JSON logs to this file instead of stderr"`
}

func serveCommand() *cli.Command {
	var params serveParams
	return &cli.Command{
		Name:    "serve",
		Summary: "Run the reminder daemon",
		Description: `Run the background daemon. It reconciles the autostart setting with
the OS, arms hydration reminders from the settings, and answers the
CLI on a unix socket (status, quick add, settings reload).

Only one daemon runs per user. The autostart entry starts it with
--hidden, which exits quietly when a daemon is already running.`,
		Usage: "hydra serve [flags]",
		Examples: []cli.Example{
			{Description: "Run in the foreground", Command: "hydra serve"},
			{Description: "Log to a file", Command: "hydra serve --log-output ~/.local/state/hydra.log"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("serve", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return intake.Validation("unexpected argument: %s", args[0])
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, params, nil)
		},
	}
}

// runServe runs the daemon until ctx is cancelled. ready, when not
// nil, is closed once the socket accepts requests.
func runServe(ctx context.Context, params serveParams, ready chan<- struct{}) error {
	cfg, err := loadConfig(params.appParams)
	if err != nil {
		return err
	}
	level, _ := cfg.Log.SlogLevel()

	logger := cli.NewCommandLogger(level)
	if params.LogOutput != "" {
		fileLogger, closer, err := cli.NewFileLogger(params.LogOutput, level)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = fileLogger
	}

	if err := cfg.EnsurePaths(); err != nil {
		return err
	}
	lock, err := instance.Acquire(cfg.Paths.Lock)
	if errors.Is(err, instance.ErrAlreadyRunning) && params.Hidden {
		logger.Info("daemon already running, exiting", "detail", err)
		return nil
	}
	if err != nil {
		return err
	}
	defer lock.Release()

	a, err := openApp(ctx, params.appParams, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := a.store.Settings(ctx)
	if err != nil {
		return err
	}
	notifier := a.notifier()
	scheduler, err := reminder.New(reminder.Config{
		Clock:       clock.Real(),
		Notifier:    notifier,
		Permissions: a.permissions(notifier),
		Sound:       current.SoundEnabled,
		Logger:      logger.With("component", "reminder"),
	})
	if err != nil {
		return err
	}
	defer scheduler.Close()

	a.tracker, err = a.newTracker(scheduler)
	if err != nil {
		return err
	}
	if _, err := a.tracker.Start(ctx); err != nil {
		return fmt.Errorf("starting tracker: %w", err)
	}

	server := service.NewSocketServer(cfg.Paths.Socket, logger.With("component", "socket"))
	daemon.Register(server, a.tracker, os.Getpid(), time.Now(), logger)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(ctx) }()

	select {
	case <-server.Ready():
	case err := <-serveErr:
		return err
	}
	logger.Info("daemon started",
		slog.Int("pid", os.Getpid()),
		slog.String("socket", cfg.Paths.Socket),
		slog.Any("reminders", scheduler.State()),
	)
	if !params.Hidden {
		fmt.Fprintf(cli.Stdout, "Hydra daemon running (pid %d). Press Ctrl+C to stop.\n", os.Getpid())
	}
	if ready != nil {
		close(ready)
	}

	err = <-serveErr
	logger.Info("daemon stopped")
	return err
}
