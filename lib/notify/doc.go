// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify delivers desktop notifications and tracks whether
// the user allows them.
//
// Delivery goes through the freedesktop notify-send tool, which talks
// to whatever notification daemon the session runs. Linux has no
// system-wide permission prompt, so the permission grant is Hydra's
// own: it is persisted in the record store, an explicit "deny" is
// never overridden by a request, and a request with no answer on
// record is granted when a delivery tool is available.
package notify
