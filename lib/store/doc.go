// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package store is Hydra's record store: water entries, the settings
// singleton, and the notification permission grant, kept in a single
// SQLite file through [sqlitepool].
//
// The schema is created with CREATE TABLE IF NOT EXISTS on every
// connection. There are no migrations.
//
// Timestamps are stored as Unix milliseconds so that ordering is
// numeric. The calendar date of each entry is derived once, at insert
// time, in the store's configured location and stored alongside; day
// queries match on that column.
//
// Every error returned from this package is an [intake.KindStore]
// error except [ErrNotFound] and amount validation.
package store
