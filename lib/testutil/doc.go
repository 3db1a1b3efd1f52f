// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by tests: bounded channel
// waits, so a broken test fails instead of hanging, and short socket
// directories.
package testutil
