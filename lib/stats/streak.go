// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package stats

import "github.com/hydra-tracker/hydra/lib/intake"

// Streaks computes goal streaks over days, which must be in ascending
// date order with at most one element per date (as Monthly produces).
//
// A day counts when it met its goal. A missing date between two
// consecutive elements breaks a run the same way a day under goal
// does; absent days are never treated as zero-intake counting days.
//
// current is the run ending at the most recent day with data: it is 0
// when that day missed the goal. best is the longest run anywhere in
// the sequence.
func Streaks(days []intake.DailyStats) (current, best int) {
	run := 0
	for i, day := range days {
		if i > 0 && days[i-1].Date.AddDays(1) != day.Date {
			run = 0
		}
		if day.GoalMet() {
			run++
		} else {
			run = 0
		}
		best = max(best, run)
	}
	// After the walk, run is exactly the streak ending at the last day.
	return run, best
}
