// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package instance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydra.lock")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	// flock locks belong to the open file description, so a second
	// open in the same process conflicts just like another process.
	_, err = Acquire(path)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Acquire error = %v, want ErrAlreadyRunning", err)
	}
}

func TestAcquireRecordsPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydra.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	pid, ok := HolderPID(path)
	if !ok || pid != os.Getpid() {
		t.Errorf("HolderPID = %d, %v; want %d", pid, ok, os.Getpid())
	}
	if lock.Path() != path {
		t.Errorf("Path() = %s, want %s", lock.Path(), path)
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydra.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
	if _, ok := HolderPID(path); ok {
		t.Error("lock file still names a holder after Release")
	}

	again, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
	again.Release()
}

func TestAcquireMissingDirectory(t *testing.T) {
	_, err := Acquire(filepath.Join(t.TempDir(), "missing", "hydra.lock"))
	if err == nil || errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Acquire error = %v, want an open failure", err)
	}
}

func TestHolderPIDRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydra.lock")
	if err := os.WriteFile(path, []byte("not a pid\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := HolderPID(path); ok {
		t.Error("HolderPID accepted garbage")
	}
}
