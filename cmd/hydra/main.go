// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Hydra tracks daily water intake and reminds the user to drink.
package main

import (
	"os"

	"github.com/hydra-tracker/hydra/cmd/hydra/commands"
	"github.com/hydra-tracker/hydra/lib/process"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}
