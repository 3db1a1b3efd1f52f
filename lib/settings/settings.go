// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings keeps the persisted settings record consistent
// with the OS autostart registration.
//
// The OS is authoritative for start_with_system. [Synchronizer.Reconcile]
// copies the OS state into the record at startup, and
// [Synchronizer.Apply] toggles the OS registration before persisting a
// change, so a failed toggle never leaves the record claiming a state
// the OS does not have.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hydra-tracker/hydra/lib/autostart"
	"github.com/hydra-tracker/hydra/lib/intake"
)

// Store persists the settings singleton. *store.Store implements it.
type Store interface {
	Settings(ctx context.Context) (intake.Settings, error)
	SaveSettings(ctx context.Context, settings intake.Settings) error
}

// Synchronizer serializes settings changes. It is safe for concurrent
// use within one process.
type Synchronizer struct {
	store     Store
	autostart autostart.Manager
	logger    *slog.Logger

	mu sync.Mutex
}

// New returns a Synchronizer. A nil logger discards.
func New(store Store, autostartManager autostart.Manager, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{store: store, autostart: autostartManager, logger: logger}
}

// Reconcile overwrites the persisted start_with_system with the OS
// autostart state when they disagree, and returns the resulting
// settings.
//
// When the OS state cannot be read the persisted settings are returned
// unchanged together with a KindOSIntegration error.
func (s *Synchronizer) Reconcile(ctx context.Context) (intake.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Settings(ctx)
	if err != nil {
		return intake.Settings{}, err
	}

	enabled, err := s.autostart.IsEnabled(ctx)
	if err != nil {
		return current, intake.OSIntegration("reading autostart state: %w", err)
	}
	if enabled == current.StartWithSystem {
		return current, nil
	}

	s.logger.Info("autostart state differs from settings, adopting OS state",
		"persisted", current.StartWithSystem,
		"os", enabled,
	)
	current.StartWithSystem = enabled
	if err := s.store.SaveSettings(ctx, current); err != nil {
		return intake.Settings{}, err
	}
	return current, nil
}

// Apply validates patch against the current settings, toggles OS
// autostart if start_with_system changes, and persists the result.
//
// Validation failures and OS failures leave both the record and the
// OS untouched. If persisting fails after a successful OS toggle the
// toggle is reverted on a best-effort basis.
func (s *Synchronizer) Apply(ctx context.Context, patch intake.SettingsPatch) (intake.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Settings(ctx)
	if err != nil {
		return intake.Settings{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated := patch.ApplyTo(current)
	if err := updated.Validate(); err != nil {
		return current, err
	}

	toggled := updated.StartWithSystem != current.StartWithSystem
	if toggled {
		if err := s.setAutostart(ctx, updated.StartWithSystem); err != nil {
			return current, err
		}
	}

	if err := s.store.SaveSettings(ctx, updated); err != nil {
		if toggled {
			if revertErr := s.setAutostart(ctx, current.StartWithSystem); revertErr != nil {
				s.logger.Error("reverting autostart after failed save",
					"error", revertErr,
					"start_with_system", current.StartWithSystem,
				)
				return current, errors.Join(err, revertErr)
			}
		}
		return current, err
	}

	s.logger.Info("settings updated",
		"daily_goal_ml", updated.DailyGoalML,
		"reminder_enabled", updated.ReminderEnabled,
		"reminder_interval_minutes", updated.ReminderIntervalMinutes,
		"start_with_system", updated.StartWithSystem,
		"theme", updated.Theme,
	)
	return updated, nil
}

func (s *Synchronizer) setAutostart(ctx context.Context, enabled bool) error {
	var err error
	if enabled {
		err = s.autostart.Enable(ctx)
	} else {
		err = s.autostart.Disable(ctx)
	}
	if err != nil {
		return intake.OSIntegration("%s autostart: %w", verb(enabled), err)
	}
	return nil
}

func verb(enabled bool) string {
	if enabled {
		return "enabling"
	}
	return "disabling"
}
