// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the SQLite connection pool behind Hydra's
// record store.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool and applies the same
// pragmas to every connection:
//
//   - journal_mode=WAL: the CLI can read while the daemon writes.
//   - synchronous=FULL: the database is the only copy of the user's
//     history, so commits are fsynced.
//   - busy_timeout=5000: a second process waits for the write lock
//     instead of failing with SQLITE_BUSY.
//   - foreign_keys=ON and temp_store=MEMORY.
//
// Callers Take a connection, use it from one goroutine, and Put it
// back. Schema setup goes in Config.OnConnect, which runs once per
// connection after the pragmas.
package sqlitepool
