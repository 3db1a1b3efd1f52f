// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code for a command that has
// already written its own output, such as "hydra status" when the
// daemon is not running.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. process.Fatal checks for this method
// and exits silently with the code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
