// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for Hydra binaries: the
// one place that writes raw error text to stderr and exits, for errors
// that surface before or after the structured logger exists.
package process
