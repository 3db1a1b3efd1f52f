// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/sqlitepool"
)

// ErrNotFound is returned by RemoveEntry when no entry has the given
// id.
var ErrNotFound = errors.New("entry not found")

// Config holds the parameters for Open.
type Config struct {
	// Path is the SQLite database file. The parent directory must
	// exist.
	Path string

	// PoolSize defaults to the pool's own default when zero.
	PoolSize int

	// Location decides which calendar day an entry belongs to.
	// Defaults to time.Local.
	Location *time.Location

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Store is the SQLite-backed record store. It is safe for concurrent
// use.
type Store struct {
	pool     *sqlitepool.Pool
	location *time.Location
	logger   *slog.Logger
}

// Open opens (creating if needed) the database at cfg.Path and
// verifies the schema by taking one connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:      cfg.Path,
		PoolSize:  cfg.PoolSize,
		Logger:    logger,
		OnConnect: createSchema,
	})
	if err != nil {
		return nil, intake.Store("opening store: %w", err)
	}

	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, intake.Store("opening store: %w", err)
	}
	pool.Put(conn)

	return &Store{pool: pool, location: location, logger: logger}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return intake.Store("closing store: %w", err)
	}
	return nil
}

// Location returns the time zone used to assign entries to days.
func (s *Store) Location() *time.Location { return s.location }

// AddEntry records a drink of amountML at timestamp and returns the
// stored entry.
func (s *Store) AddEntry(ctx context.Context, amountML int, timestamp time.Time) (intake.Entry, error) {
	if err := intake.ValidateAmount(amountML); err != nil {
		return intake.Entry{}, err
	}

	entry := intake.Entry{
		AmountML:  amountML,
		Timestamp: timestamp.In(s.location),
		Date:      intake.DayOf(timestamp.In(s.location)),
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.Entry{}, intake.Store("add entry: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO water_entries (amount_ml, timestamp, date) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{amountML, entry.Timestamp.UnixMilli(), entry.Date.String()},
		})
	if err != nil {
		return intake.Entry{}, intake.Store("add entry: %w", err)
	}
	entry.ID = conn.LastInsertRowID()

	s.logger.Debug("entry added", "id", entry.ID, "amount_ml", amountML, "date", entry.Date)
	return entry, nil
}

// RemoveEntry deletes the entry with the given id. It returns an error
// wrapping ErrNotFound when there is no such entry.
func (s *Store) RemoveEntry(ctx context.Context, id int64) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.Store("remove entry %d: %w", id, err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `DELETE FROM water_entries WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{id}})
	if err != nil {
		return intake.Store("remove entry %d: %w", id, err)
	}
	if conn.Changes() == 0 {
		return fmt.Errorf("remove entry %d: %w", id, ErrNotFound)
	}

	s.logger.Debug("entry removed", "id", id)
	return nil
}

// EntriesOn returns the entries of one calendar day ordered by
// timestamp.
func (s *Store) EntriesOn(ctx context.Context, day intake.Day) ([]intake.Entry, error) {
	return s.queryEntries(ctx,
		`SELECT id, amount_ml, timestamp, date FROM water_entries
		 WHERE date = ? ORDER BY timestamp, id`,
		day.String())
}

// EntriesBetween returns the entries from the first day through the
// last day inclusive, ordered by timestamp.
func (s *Store) EntriesBetween(ctx context.Context, first, last intake.Day) ([]intake.Entry, error) {
	if last.Before(first) {
		return nil, intake.Validation("range end %s is before start %s", last, first)
	}
	return s.queryEntries(ctx,
		`SELECT id, amount_ml, timestamp, date FROM water_entries
		 WHERE date >= ? AND date <= ? ORDER BY timestamp, id`,
		first.String(), last.String())
}

// AllEntries returns every stored entry ordered by timestamp.
func (s *Store) AllEntries(ctx context.Context) ([]intake.Entry, error) {
	return s.queryEntries(ctx,
		`SELECT id, amount_ml, timestamp, date FROM water_entries ORDER BY timestamp, id`)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]intake.Entry, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, intake.Store("query entries: %w", err)
	}
	defer s.pool.Put(conn)

	entries := []intake.Entry{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			entry, err := s.scanEntry(stmt)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		},
	})
	if err != nil {
		return nil, intake.Store("query entries: %w", err)
	}
	return entries, nil
}

func (s *Store) scanEntry(stmt *sqlite.Stmt) (intake.Entry, error) {
	date, err := intake.ParseDay(stmt.ColumnText(3))
	if err != nil {
		return intake.Entry{}, fmt.Errorf("entry %d: %w", stmt.ColumnInt64(0), err)
	}
	return intake.Entry{
		ID:        stmt.ColumnInt64(0),
		AmountML:  stmt.ColumnInt(1),
		Timestamp: time.UnixMilli(stmt.ColumnInt64(2)).In(s.location),
		Date:      date,
	}, nil
}

// Settings returns the persisted settings singleton.
func (s *Store) Settings(ctx context.Context) (intake.Settings, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.Settings{}, intake.Store("read settings: %w", err)
	}
	defer s.pool.Put(conn)

	settings, err := readSettings(conn)
	if err != nil {
		return intake.Settings{}, intake.Store("read settings: %w", err)
	}
	return settings, nil
}

func readSettings(conn *sqlite.Conn) (intake.Settings, error) {
	var settings intake.Settings
	found := false
	err := sqlitex.Execute(conn, `
		SELECT daily_goal_ml, reminder_interval_minutes, reminder_enabled,
		       sound_enabled, start_with_system, theme
		FROM settings WHERE id = 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				settings = intake.Settings{
					DailyGoalML:             stmt.ColumnInt(0),
					ReminderIntervalMinutes: stmt.ColumnInt(1),
					ReminderEnabled:         stmt.ColumnInt64(2) != 0,
					SoundEnabled:            stmt.ColumnInt64(3) != 0,
					StartWithSystem:         stmt.ColumnInt64(4) != 0,
					Theme:                   intake.Theme(stmt.ColumnText(5)),
				}
				return nil
			},
		})
	if err != nil {
		return intake.Settings{}, err
	}
	if !found {
		return intake.Settings{}, errors.New("settings row missing")
	}
	return settings, nil
}

// SaveSettings replaces the settings singleton. Callers validate
// first; the store persists whatever it is given.
func (s *Store) SaveSettings(ctx context.Context, settings intake.Settings) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.Store("save settings: %w", err)
	}
	defer s.pool.Put(conn)

	if err := writeSettings(conn, settings); err != nil {
		return intake.Store("save settings: %w", err)
	}

	s.logger.Debug("settings saved",
		"daily_goal_ml", settings.DailyGoalML,
		"reminder_interval_minutes", settings.ReminderIntervalMinutes,
		"reminder_enabled", settings.ReminderEnabled,
		"start_with_system", settings.StartWithSystem,
	)
	return nil
}

func writeSettings(conn *sqlite.Conn, settings intake.Settings) error {
	return sqlitex.Execute(conn, `
		INSERT INTO settings (
			id, daily_goal_ml, reminder_interval_minutes,
			reminder_enabled, sound_enabled, start_with_system, theme
		) VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			daily_goal_ml             = excluded.daily_goal_ml,
			reminder_interval_minutes = excluded.reminder_interval_minutes,
			reminder_enabled          = excluded.reminder_enabled,
			sound_enabled             = excluded.sound_enabled,
			start_with_system         = excluded.start_with_system,
			theme                     = excluded.theme`,
		&sqlitex.ExecOptions{
			Args: []any{
				settings.DailyGoalML,
				settings.ReminderIntervalMinutes,
				boolInt(settings.ReminderEnabled),
				boolInt(settings.SoundEnabled),
				boolInt(settings.StartWithSystem),
				string(settings.Theme),
			},
		})
}

// Permission returns the stored notification permission answer, or
// PermissionUnknown when the user has never been asked.
func (s *Store) Permission(ctx context.Context) (intake.Permission, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.PermissionUnknown, intake.Store("read permission: %w", err)
	}
	defer s.pool.Put(conn)

	permission := intake.PermissionUnknown
	err = sqlitex.Execute(conn, `SELECT state FROM notification_permission WHERE id = 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				permission = intake.Permission(stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return intake.PermissionUnknown, intake.Store("read permission: %w", err)
	}
	return permission, nil
}

// SavePermission records the user's answer to the permission prompt.
func (s *Store) SavePermission(ctx context.Context, permission intake.Permission) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.Store("save permission: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO notification_permission (id, state) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET state = excluded.state`,
		&sqlitex.ExecOptions{Args: []any{string(permission)}})
	if err != nil {
		return intake.Store("save permission: %w", err)
	}
	return nil
}

// Restore replaces every entry and the settings singleton in one
// IMMEDIATE transaction. Entry ids and dates are kept as given. On
// error nothing changes.
func (s *Store) Restore(ctx context.Context, entries []intake.Entry, settings intake.Settings) error {
	for _, entry := range entries {
		if err := intake.ValidateAmount(entry.AmountML); err != nil {
			return fmt.Errorf("entry %d: %w", entry.ID, err)
		}
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return intake.Store("restore: %w", err)
	}
	defer s.pool.Put(conn)

	if err := restoreInTransaction(conn, entries, settings); err != nil {
		return intake.Store("restore: %w", err)
	}

	s.logger.Info("store restored", "entries", len(entries))
	return nil
}

func restoreInTransaction(conn *sqlite.Conn, entries []intake.Entry, settings intake.Settings) (err error) {
	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer endTransaction(&err)

	if err = sqlitex.Execute(conn, `DELETE FROM water_entries`, nil); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	for _, entry := range entries {
		err = sqlitex.Execute(conn,
			`INSERT INTO water_entries (id, amount_ml, timestamp, date) VALUES (?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{entry.ID, entry.AmountML, entry.Timestamp.UnixMilli(), entry.Date.String()},
			})
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", entry.ID, err)
		}
	}
	if err = writeSettings(conn, settings); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
