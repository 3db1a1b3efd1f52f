// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"testing"
)

// SocketDir returns a short temporary directory for unix sockets,
// removed when the test ends. sun_path holds at most 108 bytes, which
// t.TempDir() paths built from long test names can exceed.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("", "hydra-")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(directory) })
	return directory
}
