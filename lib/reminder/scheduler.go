// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package reminder schedules recurring "drink water" notifications.
//
// A [Scheduler] is either disarmed or armed with an interval. Arming
// schedules a one-shot confirmation shortly afterwards plus a
// recurring reminder every interval. Re-arming with a new interval
// cancels the old timers first, so at most one recurring timer is ever
// live.
//
// Each firing hands the notification to a fresh goroutine and returns;
// a slow or failing notification daemon never delays the next
// reminder. Delivery failures are logged and otherwise ignored.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hydra-tracker/hydra/lib/clock"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/notify"
)

// ConfirmationDelay is how long after arming the confirmation
// notification fires.
const ConfirmationDelay = 5 * time.Second

// deliveryTimeout bounds a single notify-send invocation.
const deliveryTimeout = 30 * time.Second

// ErrClosed is returned by Configure after Close.
var ErrClosed = errors.New("reminder scheduler is closed")

// Config holds the collaborators of a Scheduler. Clock, Notifier and
// Permissions are required.
type Config struct {
	Clock       clock.Clock
	Notifier    notify.Notifier
	Permissions notify.Permissions

	// Sound is the initial value of the sound hint on reminders.
	Sound bool

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// State is a snapshot of the scheduler.
type State struct {
	Armed    bool          `json:"armed"`
	Interval time.Duration `json:"interval"`

	// NextReminder is when the recurring timer fires next. Zero when
	// disarmed.
	NextReminder time.Time `json:"next_reminder"`
}

// Scheduler owns the reminder timers. It is safe for concurrent use.
type Scheduler struct {
	clock       clock.Clock
	notifier    notify.Notifier
	permissions notify.Permissions
	logger      *slog.Logger

	// configureMu serializes Configure calls, including their
	// permission round trips. Timer callbacks never take it.
	configureMu sync.Mutex

	// mu guards everything below. Timer callbacks take it to check
	// their generation.
	mu           sync.Mutex
	generation   uint64
	armed        bool
	interval     time.Duration
	nextReminder time.Time
	confirmation *clock.Timer
	recurring    *clock.Timer
	sound        bool
	closed       bool

	deliveryContext context.Context
	cancelDelivery  context.CancelFunc
	deliveries      sync.WaitGroup
}

// New returns a disarmed scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Clock == nil {
		return nil, errors.New("reminder: Clock is required")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("reminder: Notifier is required")
	}
	if cfg.Permissions == nil {
		return nil, errors.New("reminder: Permissions is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	deliveryContext, cancelDelivery := context.WithCancel(context.Background())
	return &Scheduler{
		clock:           cfg.Clock,
		notifier:        cfg.Notifier,
		permissions:     cfg.Permissions,
		logger:          logger,
		sound:           cfg.Sound,
		deliveryContext: deliveryContext,
		cancelDelivery:  cancelDelivery,
	}, nil
}

// Configure arms the scheduler with interval when enabled is true and
// disarms it otherwise. Configuring an armed scheduler always re-arms,
// restarting the interval.
//
// Arming requires notification permission. When none is on record it
// is requested once; if the request is refused the scheduler is left
// disarmed and a KindPermissionDenied error is returned.
func (s *Scheduler) Configure(ctx context.Context, enabled bool, interval time.Duration) error {
	s.configureMu.Lock()
	defer s.configureMu.Unlock()

	if s.isClosed() {
		return ErrClosed
	}

	if !enabled {
		s.mu.Lock()
		s.disarmLocked()
		s.mu.Unlock()
		s.logger.Info("reminders disarmed")
		return nil
	}

	if interval <= 0 {
		return intake.Validation("reminder interval must be positive, got %v", interval)
	}

	granted, err := s.ensurePermission(ctx)
	if err != nil {
		return fmt.Errorf("reminder: checking notification permission: %w", err)
	}
	if !granted {
		s.mu.Lock()
		s.disarmLocked()
		s.mu.Unlock()
		s.logger.Warn("reminders disarmed: notification permission denied")
		return intake.PermissionDenied("notification permission denied")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.armLocked(interval)
	s.logger.Info("reminders armed", "interval", interval, "next_reminder", s.nextReminder)
	return nil
}

// SetSound changes the sound hint on subsequent notifications without
// touching the timers.
func (s *Scheduler) SetSound(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sound = enabled
}

// State returns the current arming state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Armed: s.armed, Interval: s.interval, NextReminder: s.nextReminder}
}

// Close disarms the scheduler, cancels in-flight deliveries and waits
// for their goroutines to exit. Configure fails after Close.
func (s *Scheduler) Close() {
	s.configureMu.Lock()
	s.mu.Lock()
	s.disarmLocked()
	s.closed = true
	s.mu.Unlock()
	s.configureMu.Unlock()

	s.cancelDelivery()
	s.deliveries.Wait()
	s.logger.Debug("reminder scheduler closed")
}

func (s *Scheduler) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scheduler) ensurePermission(ctx context.Context) (bool, error) {
	granted, err := s.permissions.IsGranted(ctx)
	if err != nil {
		return false, err
	}
	if granted {
		return true, nil
	}
	return s.permissions.Request(ctx)
}

// armLocked replaces any live timers with a fresh confirmation and
// recurring pair under a new generation.
func (s *Scheduler) armLocked(interval time.Duration) {
	s.disarmLocked()

	generation := s.generation
	s.armed = true
	s.interval = interval
	s.confirmation = s.clock.AfterFunc(ConfirmationDelay, func() {
		s.confirm(generation)
	})
	s.scheduleLocked(generation)
}

// disarmLocked stops the live timers and bumps the generation so that
// callbacks already past their Stop window do nothing.
func (s *Scheduler) disarmLocked() {
	if s.confirmation != nil {
		s.confirmation.Stop()
		s.confirmation = nil
	}
	if s.recurring != nil {
		s.recurring.Stop()
		s.recurring = nil
	}
	s.generation++
	s.armed = false
	s.interval = 0
	s.nextReminder = time.Time{}
}

func (s *Scheduler) scheduleLocked(generation uint64) {
	s.nextReminder = s.clock.Now().Add(s.interval)
	s.recurring = s.clock.AfterFunc(s.interval, func() {
		s.tick(generation)
	})
}

func (s *Scheduler) confirm(generation uint64) {
	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.confirmation = nil
	s.deliverLocked("confirmation", confirmationMessage(s.interval, s.sound))
	s.mu.Unlock()
}

func (s *Scheduler) tick(generation uint64) {
	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.scheduleLocked(generation)
	s.deliverLocked("reminder", reminderMessage(s.sound))
	s.mu.Unlock()
}

// deliverLocked must run with mu held: Close waits on deliveries only
// after bumping the generation under mu.
func (s *Scheduler) deliverLocked(kind string, message notify.Message) {
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		ctx, cancel := context.WithTimeout(s.deliveryContext, deliveryTimeout)
		defer cancel()
		if err := s.notifier.Send(ctx, message); err != nil {
			s.logger.Error("notification delivery failed", "kind", kind, "error", err)
			return
		}
		s.logger.Debug("notification delivered", "kind", kind)
	}()
}

func confirmationMessage(interval time.Duration, sound bool) notify.Message {
	return notify.Message{
		Title: "Reminders enabled",
		Body:  fmt.Sprintf("Hydra will remind you to drink water every %s.", formatInterval(interval)),
		Sound: sound,
	}
}

func reminderMessage(sound bool) notify.Message {
	return notify.Message{
		Title: "Time to drink water",
		Body:  "Stay hydrated! Log a glass in Hydra when you're done.",
		Sound: sound,
	}
}

// formatInterval completes "every ...": "hour", "45 minutes",
// "2 hours", or the Duration string for anything irregular.
func formatInterval(interval time.Duration) string {
	switch {
	case interval == time.Minute:
		return "minute"
	case interval == time.Hour:
		return "hour"
	case interval%time.Hour == 0:
		return fmt.Sprintf("%d hours", interval/time.Hour)
	case interval%time.Minute == 0 && interval < time.Hour:
		return fmt.Sprintf("%d minutes", interval/time.Minute)
	default:
		return interval.String()
	}
}
