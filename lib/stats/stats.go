// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package stats derives daily, monthly and yearly intake aggregates.
// Every function is pure: it reads an entry snapshot and a goal and
// never touches the store, so results depend only on their inputs.
//
// The goal passed in is applied to every day being aggregated,
// including days logged while a different goal was configured.
package stats

import (
	"sort"
	"time"

	"github.com/hydra-tracker/hydra/lib/intake"
)

// Daily sums the entries dated day.
func Daily(day intake.Day, entries []intake.Entry, goalML int) intake.DailyStats {
	result := intake.DailyStats{Date: day, GoalML: goalML}
	for _, entry := range entries {
		if entry.Date != day {
			continue
		}
		result.TotalML += entry.AmountML
		result.EntriesCount++
	}
	result.Percentage = Percentage(result.TotalML, goalML)
	return result
}

// Percentage returns totalML as a percentage of goalML, unclamped. A
// non-positive goal yields 0.
func Percentage(totalML, goalML int) float64 {
	if goalML <= 0 {
		return 0
	}
	return float64(totalML) * 100 / float64(goalML)
}

// Monthly aggregates the entries dated within year/month. Entries
// outside the month are ignored, so callers may pass a wider snapshot.
func Monthly(year int, month time.Month, entries []intake.Entry, goalML int) intake.MonthlyStats {
	days := groupByDay(entries, func(day intake.Day) bool {
		return day.Year == year && day.Month == month
	}, goalML)

	result := intake.MonthlyStats{
		Month: month.String(),
		Year:  year,
		Days:  days,
	}
	for _, day := range days {
		result.TotalML += day.TotalML
		if day.GoalMet() {
			result.DaysGoalMet++
		}
	}
	if len(days) > 0 {
		result.AverageML = float64(result.TotalML) / float64(len(days))
	}
	result.CurrentStreak, result.BestStreak = Streaks(days)
	return result
}

// Yearly returns one aggregate per month of year, January first, with
// three-letter month labels.
func Yearly(year int, entries []intake.Entry, goalML int) []intake.MonthlyStats {
	months := make([]intake.MonthlyStats, 0, 12)
	for month := time.January; month <= time.December; month++ {
		monthly := Monthly(year, month, entries, goalML)
		monthly.Month = month.String()[:3]
		months = append(months, monthly)
	}
	return months
}

// groupByDay builds a DailyStats for every day accepted by keep that
// has at least one entry, in ascending date order.
func groupByDay(entries []intake.Entry, keep func(intake.Day) bool, goalML int) []intake.DailyStats {
	byDay := make(map[intake.Day]*intake.DailyStats)
	for _, entry := range entries {
		if !keep(entry.Date) {
			continue
		}
		daily, ok := byDay[entry.Date]
		if !ok {
			daily = &intake.DailyStats{Date: entry.Date, GoalML: goalML}
			byDay[entry.Date] = daily
		}
		daily.TotalML += entry.AmountML
		daily.EntriesCount++
	}

	days := make([]intake.DailyStats, 0, len(byDay))
	for _, daily := range byDay {
		daily.Percentage = Percentage(daily.TotalML, goalML)
		days = append(days, *daily)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}
