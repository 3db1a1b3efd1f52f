// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status
// and have already reported themselves to the user.
type exitCoder interface {
	ExitCode() int
}

// Fatal reports err on stderr and exits. Errors carrying an exit code
// exit with that code and print nothing. Fatal(nil) exits 0.
func Fatal(err error) {
	os.Exit(report(os.Stderr, err))
}

// report writes err to w unless it carries its own exit code, and
// returns the process exit status.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
