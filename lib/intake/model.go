// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import "time"

// Entry is one logged drink. Entries are immutable; the only mutation
// is deletion.
type Entry struct {
	ID        int64     `json:"id"`
	AmountML  int       `json:"amount_ml"`
	Timestamp time.Time `json:"timestamp"`
	Date      Day       `json:"date"`
}

// DailyStats aggregates one day's entries against a goal.
//
// Percentage is TotalML/GoalML*100 and is not clamped: 112.5 means the
// goal was exceeded by an eighth. Progress indicators clamp it
// themselves.
type DailyStats struct {
	Date         Day     `json:"date"`
	TotalML      int     `json:"total_ml"`
	GoalML       int     `json:"goal_ml"`
	EntriesCount int     `json:"entries_count"`
	Percentage   float64 `json:"percentage"`
}

// GoalMet reports whether the day's total reached the goal.
func (d DailyStats) GoalMet() bool {
	return d.EntriesCount > 0 && d.TotalML >= d.GoalML
}

// MonthlyStats aggregates the days of one month that have entries.
// Days without entries are absent from Days.
type MonthlyStats struct {
	Month         string       `json:"month"`
	Year          int          `json:"year"`
	Days          []DailyStats `json:"days"`
	TotalML       int          `json:"total_ml"`
	AverageML     float64      `json:"average_ml"`
	DaysGoalMet   int          `json:"days_goal_met"`
	CurrentStreak int          `json:"current_streak"`
	BestStreak    int          `json:"best_streak"`
}

// Theme is the presentation color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Settings is the persisted user configuration singleton.
type Settings struct {
	DailyGoalML             int   `json:"daily_goal_ml"`
	ReminderIntervalMinutes int   `json:"reminder_interval_minutes"`
	ReminderEnabled         bool  `json:"reminder_enabled"`
	SoundEnabled            bool  `json:"sound_enabled"`
	StartWithSystem         bool  `json:"start_with_system"`
	Theme                   Theme `json:"theme"`
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() Settings {
	return Settings{
		DailyGoalML:             4000,
		ReminderIntervalMinutes: 60,
		ReminderEnabled:         true,
		SoundEnabled:            true,
		StartWithSystem:         false,
		Theme:                   ThemeDark,
	}
}

// ReminderInterval returns the reminder period as a duration.
func (s Settings) ReminderInterval() time.Duration {
	return time.Duration(s.ReminderIntervalMinutes) * time.Minute
}

// Validate checks the fields that have domain constraints.
func (s Settings) Validate() error {
	if s.DailyGoalML <= 0 {
		return Validation("daily goal must be positive, got %d ml", s.DailyGoalML)
	}
	if s.ReminderIntervalMinutes <= 0 {
		return Validation("reminder interval must be positive, got %d minutes", s.ReminderIntervalMinutes)
	}
	if !s.Theme.Valid() {
		return Validation("unknown theme %q (want %q or %q)", s.Theme, ThemeDark, ThemeLight)
	}
	return nil
}

// SettingsPatch is a partial settings update. Nil fields are left
// unchanged.
type SettingsPatch struct {
	DailyGoalML             *int   `json:"daily_goal_ml,omitempty"`
	ReminderIntervalMinutes *int   `json:"reminder_interval_minutes,omitempty"`
	ReminderEnabled         *bool  `json:"reminder_enabled,omitempty"`
	SoundEnabled            *bool  `json:"sound_enabled,omitempty"`
	StartWithSystem         *bool  `json:"start_with_system,omitempty"`
	Theme                   *Theme `json:"theme,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p == (SettingsPatch{})
}

// ApplyTo returns s with the patch's non-nil fields applied.
func (p SettingsPatch) ApplyTo(s Settings) Settings {
	if p.DailyGoalML != nil {
		s.DailyGoalML = *p.DailyGoalML
	}
	if p.ReminderIntervalMinutes != nil {
		s.ReminderIntervalMinutes = *p.ReminderIntervalMinutes
	}
	if p.ReminderEnabled != nil {
		s.ReminderEnabled = *p.ReminderEnabled
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.StartWithSystem != nil {
		s.StartWithSystem = *p.StartWithSystem
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}

// Permission is the persisted answer to the notification permission
// prompt.
type Permission string

const (
	// PermissionUnknown means the user has not been asked yet.
	PermissionUnknown Permission = ""
	PermissionGranted Permission = "granted"
	PermissionRefused Permission = "denied"
)
