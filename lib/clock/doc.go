// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so that timer-driven
// code (the reminder scheduler, "today" lookups) can be tested without
// sleeping.
//
// Production code holds a Clock and receives Real(). Tests hand in a
// FakeClock whose time moves only when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local))
//	scheduler := reminder.New(reminder.Config{Clock: c, ...})
//	c.WaitForTimers(1)
//	c.Advance(time.Hour) // fires the hourly reminder synchronously
//
// AfterFunc callbacks registered on a FakeClock run on the goroutine
// that calls Advance, in deadline order.
package clock
