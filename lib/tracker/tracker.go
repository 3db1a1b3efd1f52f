// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracker is the facade the CLI, the dashboard and the daemon
// call into. It combines the record store, the statistics engine, the
// settings synchronizer and (in the daemon) the reminder scheduler.
//
// Every read builds statistics from a fresh snapshot of the store, so
// callers simply call again after a mutation.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hydra-tracker/hydra/lib/clock"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/reminder"
	"github.com/hydra-tracker/hydra/lib/stats"
)

// Records is the subset of the record store the tracker reads and
// writes. *store.Store implements it.
type Records interface {
	AddEntry(ctx context.Context, amountML int, timestamp time.Time) (intake.Entry, error)
	RemoveEntry(ctx context.Context, id int64) error
	EntriesOn(ctx context.Context, day intake.Day) ([]intake.Entry, error)
	EntriesBetween(ctx context.Context, first, last intake.Day) ([]intake.Entry, error)
	Settings(ctx context.Context) (intake.Settings, error)
}

// SettingsSynchronizer applies settings changes. *settings.Synchronizer
// implements it.
type SettingsSynchronizer interface {
	Reconcile(ctx context.Context) (intake.Settings, error)
	Apply(ctx context.Context, patch intake.SettingsPatch) (intake.Settings, error)
}

// Scheduler is the reminder scheduler. *reminder.Scheduler implements
// it.
type Scheduler interface {
	Configure(ctx context.Context, enabled bool, interval time.Duration) error
	SetSound(enabled bool)
	State() reminder.State
}

// Config holds the collaborators of a Tracker.
type Config struct {
	Records  Records
	Settings SettingsSynchronizer

	// Scheduler is nil outside the daemon. Without one, settings
	// changes are persisted but no timers are touched.
	Scheduler Scheduler

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Location decides what "today" means. Defaults to time.Local and
	// should match the store's location.
	Location *time.Location

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Tracker is safe for concurrent use.
type Tracker struct {
	records   Records
	settings  SettingsSynchronizer
	scheduler Scheduler
	clock     clock.Clock
	location  *time.Location
	logger    *slog.Logger
}

// New returns a Tracker. Records and Settings are required.
func New(cfg Config) (*Tracker, error) {
	if cfg.Records == nil {
		return nil, errors.New("tracker: Records is required")
	}
	if cfg.Settings == nil {
		return nil, errors.New("tracker: Settings is required")
	}
	tracker := &Tracker{
		records:   cfg.Records,
		settings:  cfg.Settings,
		scheduler: cfg.Scheduler,
		clock:     cfg.Clock,
		location:  cfg.Location,
		logger:    cfg.Logger,
	}
	if tracker.clock == nil {
		tracker.clock = clock.Real()
	}
	if tracker.location == nil {
		tracker.location = time.Local
	}
	if tracker.logger == nil {
		tracker.logger = slog.New(slog.DiscardHandler)
	}
	return tracker, nil
}

// Today returns the current calendar day in the tracker's location.
func (t *Tracker) Today() intake.Day {
	return intake.DayOf(t.clock.Now().In(t.location))
}

// DailyStats aggregates one day against the current goal.
func (t *Tracker) DailyStats(ctx context.Context, day intake.Day) (intake.DailyStats, error) {
	entries, err := t.records.EntriesOn(ctx, day)
	if err != nil {
		return intake.DailyStats{}, err
	}
	current, err := t.records.Settings(ctx)
	if err != nil {
		return intake.DailyStats{}, err
	}
	return stats.Daily(day, entries, current.DailyGoalML), nil
}

// TodayStats is DailyStats for today.
func (t *Tracker) TodayStats(ctx context.Context) (intake.DailyStats, error) {
	return t.DailyStats(ctx, t.Today())
}

// TodayEntries returns today's entries ordered by time.
func (t *Tracker) TodayEntries(ctx context.Context) ([]intake.Entry, error) {
	return t.records.EntriesOn(ctx, t.Today())
}

// MonthlyStats aggregates one calendar month, including streaks.
func (t *Tracker) MonthlyStats(ctx context.Context, year int, month time.Month) (intake.MonthlyStats, error) {
	if month < time.January || month > time.December {
		return intake.MonthlyStats{}, intake.Validation("month must be 1-12, got %d", int(month))
	}
	first := intake.Day{Year: year, Month: month, Day: 1}
	last := intake.Day{Year: year, Month: month, Day: intake.DaysIn(year, month)}

	entries, err := t.records.EntriesBetween(ctx, first, last)
	if err != nil {
		return intake.MonthlyStats{}, err
	}
	current, err := t.records.Settings(ctx)
	if err != nil {
		return intake.MonthlyStats{}, err
	}
	return stats.Monthly(year, month, entries, current.DailyGoalML), nil
}

// YearlyOverview returns twelve monthly aggregates for year.
func (t *Tracker) YearlyOverview(ctx context.Context, year int) ([]intake.MonthlyStats, error) {
	first := intake.Day{Year: year, Month: time.January, Day: 1}
	last := intake.Day{Year: year, Month: time.December, Day: 31}

	entries, err := t.records.EntriesBetween(ctx, first, last)
	if err != nil {
		return nil, err
	}
	current, err := t.records.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Yearly(year, entries, current.DailyGoalML), nil
}

// AddWater logs a drink of amountML at the current time.
func (t *Tracker) AddWater(ctx context.Context, amountML int) (intake.Entry, error) {
	if err := intake.ValidateAmount(amountML); err != nil {
		return intake.Entry{}, err
	}
	entry, err := t.records.AddEntry(ctx, amountML, t.clock.Now())
	if err != nil {
		return intake.Entry{}, err
	}
	t.logger.Info("water added", "id", entry.ID, "amount_ml", entry.AmountML)
	return entry, nil
}

// RemoveEntry deletes one entry. A missing id yields an error wrapping
// store.ErrNotFound.
func (t *Tracker) RemoveEntry(ctx context.Context, id int64) error {
	if err := t.records.RemoveEntry(ctx, id); err != nil {
		return err
	}
	t.logger.Info("entry removed", "id", id)
	return nil
}

// Settings returns the persisted settings.
func (t *Tracker) Settings(ctx context.Context) (intake.Settings, error) {
	return t.records.Settings(ctx)
}

// ApplySettingsChange validates and persists patch through the
// synchronizer, then re-arms or disarms reminders when the patch
// touches them.
//
// A refused notification permission is returned as a
// KindPermissionDenied error alongside the persisted settings: the
// change is saved, but reminders stay off until the user enables them
// again.
func (t *Tracker) ApplySettingsChange(ctx context.Context, patch intake.SettingsPatch) (intake.Settings, error) {
	updated, err := t.settings.Apply(ctx, patch)
	if err != nil {
		return updated, err
	}
	if t.scheduler == nil {
		return updated, nil
	}

	if patch.SoundEnabled != nil {
		t.scheduler.SetSound(updated.SoundEnabled)
	}
	if patch.ReminderEnabled != nil || patch.ReminderIntervalMinutes != nil {
		if err := t.scheduler.Configure(ctx, updated.ReminderEnabled, updated.ReminderInterval()); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// Start prepares the daemon: it reconciles autostart with the OS and
// arms reminders from the persisted settings.
//
// An unreadable autostart state is logged and does not stop startup;
// neither does a refused notification permission.
func (t *Tracker) Start(ctx context.Context) (intake.Settings, error) {
	current, err := t.settings.Reconcile(ctx)
	switch {
	case intake.IsKind(err, intake.KindOSIntegration):
		t.logger.Warn("autostart reconciliation skipped", "error", err)
	case err != nil:
		return intake.Settings{}, err
	}

	if err := t.SyncReminders(ctx); err != nil && !intake.IsKind(err, intake.KindPermissionDenied) {
		return current, err
	}
	return current, nil
}

// SyncReminders configures the scheduler from the persisted settings.
// The daemon calls it at startup and whenever another process reports
// a settings change. Without a scheduler it does nothing.
func (t *Tracker) SyncReminders(ctx context.Context) error {
	if t.scheduler == nil {
		return nil
	}
	current, err := t.records.Settings(ctx)
	if err != nil {
		return err
	}
	t.scheduler.SetSound(current.SoundEnabled)

	// Re-arming restarts the period and repeats the confirmation, so a
	// reload that leaves the schedule as it is only updates the sound.
	state := t.scheduler.State()
	if current.ReminderEnabled && state.Armed && state.Interval == current.ReminderInterval() {
		return nil
	}
	if err := t.scheduler.Configure(ctx, current.ReminderEnabled, current.ReminderInterval()); err != nil {
		t.logger.Warn("reminders not armed", "error", err)
		return err
	}
	return nil
}

// ReminderState reports the scheduler state. ok is false without a
// scheduler.
func (t *Tracker) ReminderState() (state reminder.State, ok bool) {
	if t.scheduler == nil {
		return reminder.State{}, false
	}
	return t.scheduler.State(), true
}
