// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the subset of the time package that Hydra components use.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once d has elapsed and returns a Timer that
	// can cancel the call. A non-positive d runs f immediately: on a
	// new goroutine for the real clock, synchronously for the fake.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc func() bool
}

// Stop cancels the pending call. It reports whether the call was
// cancelled; false means it already ran or was stopped before.
func (t *Timer) Stop() bool { return t.stopFunc() }
