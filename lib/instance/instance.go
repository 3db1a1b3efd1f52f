// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

// Package instance enforces a single running daemon per user with an
// advisory lock file.
//
// The lock is a BSD flock on an open descriptor, so the kernel releases
// it when the process exits, even on a crash. The lock file records the
// holder's PID for diagnostics; its contents are never trusted for
// mutual exclusion.
package instance

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning is returned by Acquire when another process holds
// the lock.
var ErrAlreadyRunning = errors.New("another hydra daemon is already running")

// Lock is a held instance lock.
type Lock struct {
	path string
	fd   int
}

// Acquire takes the lock at path without blocking. When another process
// holds it, the returned error wraps ErrAlreadyRunning and names the
// holder's PID when known.
func Acquire(path string) (*Lock, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			if pid, ok := HolderPID(path); ok {
				return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
			}
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	if err := writePID(fd); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("recording pid in %s: %w", path, err)
	}

	return &Lock{path: path, fd: fd}, nil
}

func writePID(fd int) error {
	if err := unix.Ftruncate(fd, 0); err != nil {
		return err
	}
	_, err := unix.Pwrite(fd, []byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	return err
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. The file is left in place; removing it would
// race with a process that has opened it but not yet locked it.
func (l *Lock) Release() error {
	if l.fd < 0 {
		return nil
	}
	unix.Ftruncate(l.fd, 0)
	err := unix.Close(l.fd)
	l.fd = -1
	if err != nil {
		return fmt.Errorf("closing lock file %s: %w", l.path, err)
	}
	return nil
}

// HolderPID reads the PID recorded in the lock file at path.
func HolderPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
