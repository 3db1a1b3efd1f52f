// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package daemon defines the actions the hydra daemon serves on its
// socket and a typed client for them.
//
// Actions:
//
//   - status: current settings, today's stats and the reminder state
//   - quick-add {amount_ml}: log a drink through the daemon
//   - reload-settings: re-arm reminders from the persisted settings,
//     sent by the CLI after it changes them
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydra-tracker/hydra/lib/codec"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/reminder"
	"github.com/hydra-tracker/hydra/lib/service"
)

const (
	ActionStatus         = "status"
	ActionQuickAdd       = "quick-add"
	ActionReloadSettings = "reload-settings"
)

// Backend is the part of the tracker the daemon exposes.
// *tracker.Tracker implements it.
type Backend interface {
	Settings(ctx context.Context) (intake.Settings, error)
	TodayStats(ctx context.Context) (intake.DailyStats, error)
	AddWater(ctx context.Context, amountML int) (intake.Entry, error)
	SyncReminders(ctx context.Context) error
	ReminderState() (reminder.State, bool)
}

// Status is the reply to the status action.
type Status struct {
	PID       int               `json:"pid"`
	StartedAt time.Time         `json:"started_at"`
	Settings  intake.Settings   `json:"settings"`
	Today     intake.DailyStats `json:"today"`
	Reminders *reminder.State   `json:"reminders,omitempty"`
}

// ReloadResult is the reply to reload-settings. Armed is false when
// reminders are disabled or notification permission was refused.
type ReloadResult struct {
	Reminders reminder.State `json:"reminders"`
	// PermissionDenied carries the refusal message when the user
	// declined notifications; the reload itself still succeeded.
	PermissionDenied string `json:"permission_denied,omitempty"`
}

type quickAddRequest struct {
	AmountML int `json:"amount_ml"`
}

// Every request is a small map; anything larger is refused before its
// handler runs. A reload may wait on the OS permission prompt.
const (
	commandRequestLimit  = 256
	quickAddRequestLimit = 1024
	queryTimeout         = 5 * time.Second
	reloadTimeout        = 30 * time.Second
)

// Register adds the daemon actions to server. pid and startedAt are
// reported by status.
func Register(server *service.SocketServer, backend Backend, pid int, startedAt time.Time, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server.Handle(ActionStatus, func(ctx context.Context, _ []byte) (any, error) {
		current, err := backend.Settings(ctx)
		if err != nil {
			return nil, err
		}
		today, err := backend.TodayStats(ctx)
		if err != nil {
			return nil, err
		}
		status := Status{PID: pid, StartedAt: startedAt, Settings: current, Today: today}
		if state, ok := backend.ReminderState(); ok {
			status.Reminders = &state
		}
		return status, nil
	}, service.MaxRequestSize(commandRequestLimit), service.Timeout(queryTimeout))

	server.Handle(ActionQuickAdd, func(ctx context.Context, raw []byte) (any, error) {
		var request quickAddRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("decoding quick-add: %w", err)
		}
		entry, err := backend.AddWater(ctx, request.AmountML)
		if err != nil {
			return nil, err
		}
		logger.Info("water added", "id", entry.ID, "amount_ml", entry.AmountML)
		return entry, nil
	}, service.MaxRequestSize(quickAddRequestLimit), service.Timeout(queryTimeout))

	server.Handle(ActionReloadSettings, func(ctx context.Context, _ []byte) (any, error) {
		var result ReloadResult
		err := backend.SyncReminders(ctx)
		switch {
		case intake.IsKind(err, intake.KindPermissionDenied):
			result.PermissionDenied = err.Error()
		case err != nil:
			return nil, err
		}
		if state, ok := backend.ReminderState(); ok {
			result.Reminders = state
		}
		logger.Info("settings reloaded", "armed", result.Reminders.Armed, "interval", result.Reminders.Interval)
		return result, nil
	}, service.MaxRequestSize(commandRequestLimit), service.Timeout(reloadTimeout))
}

// Client calls the daemon actions.
type Client struct {
	client *service.Client
}

// NewClient returns a client for the daemon socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{client: service.NewClient(socketPath)}
}

// Status fetches the daemon status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	err := c.client.Call(ctx, ActionStatus, nil, &status)
	return status, err
}

// QuickAdd logs amountML through the daemon.
func (c *Client) QuickAdd(ctx context.Context, amountML int) (intake.Entry, error) {
	var entry intake.Entry
	err := c.client.Call(ctx, ActionQuickAdd, map[string]any{"amount_ml": amountML}, &entry)
	return entry, err
}

// ReloadSettings asks the daemon to re-arm reminders. A missing daemon
// is not an error: the next daemon start reads the same settings.
func (c *Client) ReloadSettings(ctx context.Context) (ReloadResult, bool, error) {
	var result ReloadResult
	err := c.client.Call(ctx, ActionReloadSettings, nil, &result)
	if errors.Is(err, service.ErrNotRunning) {
		return ReloadResult{}, false, nil
	}
	if err != nil {
		return ReloadResult{}, false, err
	}
	return result, true, nil
}
