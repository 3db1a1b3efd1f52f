// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard is the interactive terminal view of today's
// intake: a bubbletea model showing the progress bar and the day's
// entries, with one-key quick adds.
//
// All store access happens in tea.Cmd functions, never in Update, so
// the UI stays responsive while SQLite works. After every mutation the
// model reloads a fresh snapshot rather than patching its state.
package dashboard
