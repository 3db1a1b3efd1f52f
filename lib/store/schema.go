// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/hydra-tracker/hydra/lib/intake"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS water_entries (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	amount_ml INTEGER NOT NULL CHECK (amount_ml > 0),
	timestamp INTEGER NOT NULL,
	date      TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_water_entries_date ON water_entries (date);

CREATE TABLE IF NOT EXISTS settings (
	id                        INTEGER PRIMARY KEY CHECK (id = 1),
	daily_goal_ml             INTEGER NOT NULL,
	reminder_interval_minutes INTEGER NOT NULL,
	reminder_enabled          INTEGER NOT NULL,
	sound_enabled             INTEGER NOT NULL,
	start_with_system         INTEGER NOT NULL,
	theme                     TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_permission (
	id    INTEGER PRIMARY KEY CHECK (id = 1),
	state TEXT NOT NULL
);
`

// createSchema runs as the pool's OnConnect hook. The settings row is
// seeded with defaults so reads never see an empty table.
func createSchema(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteScript(conn, schemaSQL, nil); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	defaults := intake.DefaultSettings()
	err := sqlitex.Execute(conn, `
		INSERT OR IGNORE INTO settings (
			id, daily_goal_ml, reminder_interval_minutes,
			reminder_enabled, sound_enabled, start_with_system, theme
		) VALUES (1, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				defaults.DailyGoalML,
				defaults.ReminderIntervalMinutes,
				boolInt(defaults.ReminderEnabled),
				boolInt(defaults.SoundEnabled),
				boolInt(defaults.StartWithSystem),
				string(defaults.Theme),
			},
		})
	if err != nil {
		return fmt.Errorf("seeding default settings: %w", err)
	}
	return nil
}

// boolInt maps a flag onto SQLite's 0/1 integer convention.
func boolInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
