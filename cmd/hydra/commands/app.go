// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/autostart"
	"github.com/hydra-tracker/hydra/lib/config"
	"github.com/hydra-tracker/hydra/lib/daemon"
	"github.com/hydra-tracker/hydra/lib/render"
	"github.com/hydra-tracker/hydra/lib/settings"
	"github.com/hydra-tracker/hydra/lib/store"
	"github.com/hydra-tracker/hydra/lib/tracker"
)

// commandTimeout bounds every one-shot command.
const commandTimeout = 30 * time.Second

// appParams are the flags every data command accepts.
type appParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"configuration file (default: $HYDRA_CONFIG, then XDG locations)"`
	NoColor    bool   `json:"-" flag:"no-color" desc:"disable colored output"`
}

// app holds the collaborators a command works with.
type app struct {
	params    appParams
	config    *config.Config
	logger    *slog.Logger
	store     *store.Store
	autostart *autostart.DesktopEntry
	settings  *settings.Synchronizer
	tracker   *tracker.Tracker
}

func loadConfig(params appParams) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if params.ConfigPath != "" {
		cfg, err = config.LoadFile(params.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openApp loads the configuration and opens the store. A nil logger
// is replaced by the CLI logger at the configured level. The tracker
// has no scheduler; only the daemon owns one.
func openApp(ctx context.Context, params appParams, logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(params)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		level, _ := cfg.Log.SlogLevel()
		logger = cli.NewCommandLogger(level)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}

	records, err := store.Open(ctx, store.Config{
		Path:     cfg.Paths.Database,
		PoolSize: cfg.Store.PoolSize,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	entry, err := autostart.NewDesktopEntry(autostart.DesktopEntryConfig{
		Directory: cfg.Paths.Autostart,
		Arguments: autostartArguments(configPath(params)),
		Logger:    logger,
	})
	if err != nil {
		records.Close()
		return nil, err
	}

	a := &app{
		params:    params,
		config:    cfg,
		logger:    logger,
		store:     records,
		autostart: entry,
		settings:  settings.New(records, entry, logger),
	}
	a.tracker, err = a.newTracker(nil)
	if err != nil {
		records.Close()
		return nil, err
	}
	return a, nil
}

// configPath is the configuration file in use, if any.
func configPath(params appParams) string {
	if params.ConfigPath != "" {
		return params.ConfigPath
	}
	return os.Getenv(config.EnvVar)
}

// autostartArguments launches only the daemon at login, with the same
// configuration file this command used. The login session does not
// carry $HYDRA_CONFIG, so the path is passed explicitly.
func autostartArguments(path string) []string {
	arguments := []string{"serve", "--hidden"}
	if path != "" {
		if absolute, err := filepath.Abs(path); err == nil {
			arguments = append(arguments, "--config", absolute)
		}
	}
	return arguments
}

func (a *app) newTracker(scheduler tracker.Scheduler) (*tracker.Tracker, error) {
	return tracker.New(tracker.Config{
		Records:   a.store,
		Settings:  a.settings,
		Scheduler: scheduler,
		Location:  a.store.Location(),
		Logger:    a.logger,
	})
}

func (a *app) Close() error {
	return a.store.Close()
}

// renderer returns a renderer for cli.Stdout in the user's theme.
func (a *app) renderer(ctx context.Context) (*render.Renderer, error) {
	current, err := a.tracker.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return render.New(cli.Stdout, render.Options{
		Theme:    current.Theme,
		NoColor:  a.params.NoColor || a.config.Display.NoColor,
		BarWidth: a.config.Display.BarWidth,
	}), nil
}

// notifyDaemon asks a running daemon to re-arm reminders after a
// settings change made by this process.
func (a *app) notifyDaemon(ctx context.Context) {
	result, running, err := daemon.NewClient(a.config.Paths.Socket).ReloadSettings(ctx)
	switch {
	case err != nil:
		a.logger.Warn("daemon did not reload settings", "error", err)
	case !running:
		a.logger.Debug("no daemon running, settings apply at next start")
	case result.PermissionDenied != "":
		fmt.Fprintf(cli.Stdout, "Reminders stay off: %s\n", result.PermissionDenied)
	}
}

// withApp opens the app for the duration of run.
func withApp(params appParams, run func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	a, err := openApp(ctx, params, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return run(ctx, a)
}
