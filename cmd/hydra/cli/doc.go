// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the hydra CLI.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. The tree is assembled in cmd/hydra/commands and dispatched
// via [Command.Execute], which handles flag parsing, subcommand routing
// and help output with examples.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. Embedding [JSONOutput] adds --json. Unknown
// subcommands and flags get a "did you mean" suggestion based on edit
// distance (suggest.go).
package cli
