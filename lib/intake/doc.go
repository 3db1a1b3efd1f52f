// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package intake defines Hydra's data model: calendar days, logged
// water entries, the derived daily and monthly aggregates, the user
// settings singleton, and the error kinds every layer reports.
//
// Entries and settings are owned by the record store (lib/store).
// DailyStats and MonthlyStats are never persisted; lib/stats derives
// them on demand from entry snapshots.
package intake
