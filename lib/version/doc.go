// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the hydra
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When GitCommit is not injected, the VCS stamp embedded by the Go
// toolchain is used instead, if present.
package version
