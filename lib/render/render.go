// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns statistics into styled terminal text for the
// CLI and the dashboard.
//
// Percentages are printed as computed (112.5% is a valid reading).
// Only the progress bar clamps, to the [0, 1] range a bar can show.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/hydra-tracker/hydra/lib/intake"
)

const defaultBarWidth = 30

// Options configures a Renderer.
type Options struct {
	// Theme selects the palette.
	Theme intake.Theme

	// NoColor disables styling. NO_COLOR in the environment does the
	// same.
	NoColor bool

	// Profile forces a color profile instead of detecting one from
	// the output. Tests use termenv.Ascii.
	Profile *termenv.Profile

	// BarWidth is the progress bar width in cells. Defaults to 30.
	BarWidth int
}

// Renderer holds styles bound to one output.
type Renderer struct {
	theme    Theme
	profile  termenv.Profile
	barWidth int

	header  lipgloss.Style
	faint   lipgloss.Style
	normal  lipgloss.Style
	water   lipgloss.Style
	met     lipgloss.Style
	missed  lipgloss.Style
	divider lipgloss.Style
}

// New returns a Renderer for output written to w.
func New(w io.Writer, options Options) *Renderer {
	lipRenderer := lipgloss.NewRenderer(w)
	switch {
	case options.NoColor || os.Getenv("NO_COLOR") != "":
		lipRenderer.SetColorProfile(termenv.Ascii)
	case options.Profile != nil:
		lipRenderer.SetColorProfile(*options.Profile)
	}

	barWidth := options.BarWidth
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}

	theme := ThemeFor(options.Theme)
	return &Renderer{
		theme:    theme,
		profile:  lipRenderer.ColorProfile(),
		barWidth: barWidth,
		header:   lipRenderer.NewStyle().Bold(true).Foreground(theme.Header),
		faint:    lipRenderer.NewStyle().Foreground(theme.FaintText),
		normal:   lipRenderer.NewStyle().Foreground(theme.NormalText),
		water:    lipRenderer.NewStyle().Foreground(theme.Water),
		met:      lipRenderer.NewStyle().Foreground(theme.GoalMet),
		missed:   lipRenderer.NewStyle().Foreground(theme.GoalMissed),
		divider:  lipRenderer.NewStyle().Foreground(theme.Border),
	}
}

// Fraction converts a percentage to the [0, 1] fill of a progress bar.
func Fraction(percentage float64) float64 {
	switch {
	case percentage <= 0:
		return 0
	case percentage >= 100:
		return 1
	default:
		return percentage / 100
	}
}

// ProgressBar draws a bar filled to Fraction(percentage).
func (r *Renderer) ProgressBar(percentage float64) string {
	bar := progress.New(
		progress.WithGradient(r.theme.ProgressStart, r.theme.ProgressEnd),
		progress.WithWidth(r.barWidth),
		progress.WithoutPercentage(),
		progress.WithColorProfile(r.profile),
	)
	return bar.ViewAs(Fraction(percentage))
}

// FormatPercentage prints up to one decimal place: "100%", "112.5%".
func FormatPercentage(percentage float64) string {
	text := fmt.Sprintf("%.1f", percentage)
	text = strings.TrimSuffix(text, ".0")
	return text + "%"
}

// Today renders the daily summary: totals, the progress bar and the
// list of entries.
func (r *Renderer) Today(stats intake.DailyStats, entries []intake.Entry) string {
	var builder strings.Builder

	builder.WriteString(r.header.Render("Today, "+stats.Date.String()) + "\n")
	fmt.Fprintf(&builder, "%s %s  %s\n",
		r.water.Render(fmt.Sprintf("%d / %d ml", stats.TotalML, stats.GoalML)),
		r.goalStyle(stats).Render(FormatPercentage(stats.Percentage)),
		r.faint.Render(plural(stats.EntriesCount, "entry", "entries")),
	)
	builder.WriteString(r.ProgressBar(stats.Percentage) + "\n")

	if remaining := stats.GoalML - stats.TotalML; remaining > 0 {
		builder.WriteString(r.faint.Render(fmt.Sprintf("%d ml to go", remaining)) + "\n")
	} else if stats.EntriesCount > 0 {
		builder.WriteString(r.met.Render("Goal reached") + "\n")
	}

	if len(entries) > 0 {
		builder.WriteString("\n")
		builder.WriteString(r.Entries(entries))
	}
	return builder.String()
}

// Entries renders a table of entries with their ids, for use with
// "hydra remove".
func (r *Renderer) Entries(entries []intake.Entry) string {
	if len(entries) == 0 {
		return r.faint.Render("No entries.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", entry.ID),
			entry.Timestamp.Format("15:04"),
			r.water.Render(fmt.Sprintf("%d ml", entry.AmountML)),
		})
	}
	return r.table([]string{"ID", "TIME", "AMOUNT"}, rows, []bool{true, false, true})
}

// Month renders a monthly aggregate: one row per day with data, then
// the totals and streaks.
func (r *Renderer) Month(stats intake.MonthlyStats) string {
	var builder strings.Builder
	builder.WriteString(r.header.Render(fmt.Sprintf("%s %d", stats.Month, stats.Year)) + "\n")

	if len(stats.Days) == 0 {
		builder.WriteString(r.faint.Render("No entries this month.") + "\n")
		return builder.String()
	}

	rows := make([][]string, 0, len(stats.Days))
	for _, day := range stats.Days {
		mark := r.missed.Render("·")
		if day.GoalMet() {
			mark = r.met.Render("✓")
		}
		rows = append(rows, []string{
			day.Date.String(),
			r.water.Render(fmt.Sprintf("%d ml", day.TotalML)),
			r.goalStyle(day).Render(FormatPercentage(day.Percentage)),
			mark,
		})
	}
	builder.WriteString(r.table([]string{"DATE", "TOTAL", "GOAL", ""}, rows, []bool{false, true, true, false}))
	builder.WriteString("\n")

	fmt.Fprintf(&builder, "%s %s   %s %s\n",
		r.faint.Render("Total"), r.water.Render(fmt.Sprintf("%d ml", stats.TotalML)),
		r.faint.Render("Average"), r.water.Render(fmt.Sprintf("%.0f ml/day", stats.AverageML)),
	)
	fmt.Fprintf(&builder, "%s %s   %s %s   %s %s\n",
		r.faint.Render("Goal met"), r.normal.Render(plural(stats.DaysGoalMet, "day", "days")),
		r.faint.Render("Current streak"), r.normal.Render(plural(stats.CurrentStreak, "day", "days")),
		r.faint.Render("Best streak"), r.normal.Render(plural(stats.BestStreak, "day", "days")),
	)
	return builder.String()
}

// Year renders the twelve monthly aggregates of a year.
func (r *Renderer) Year(year int, months []intake.MonthlyStats) string {
	var builder strings.Builder
	builder.WriteString(r.header.Render(fmt.Sprintf("%d", year)) + "\n")

	rows := make([][]string, 0, len(months))
	total := 0
	for _, month := range months {
		total += month.TotalML
		rows = append(rows, []string{
			month.Month,
			r.water.Render(fmt.Sprintf("%d ml", month.TotalML)),
			fmt.Sprintf("%.0f ml", month.AverageML),
			fmt.Sprintf("%d/%d", month.DaysGoalMet, len(month.Days)),
			fmt.Sprintf("%d", month.BestStreak),
		})
	}
	builder.WriteString(r.table(
		[]string{"MONTH", "TOTAL", "AVG/DAY", "MET", "BEST"},
		rows,
		[]bool{false, true, true, true, true},
	))
	fmt.Fprintf(&builder, "\n%s %s\n", r.faint.Render("Year total"), r.water.Render(fmt.Sprintf("%d ml", total)))
	return builder.String()
}

// Settings renders the settings record as aligned key/value lines.
func (r *Renderer) Settings(settings intake.Settings) string {
	rows := [][]string{
		{"daily_goal_ml", fmt.Sprintf("%d", settings.DailyGoalML)},
		{"reminder_interval_minutes", fmt.Sprintf("%d", settings.ReminderIntervalMinutes)},
		{"reminder_enabled", fmt.Sprintf("%t", settings.ReminderEnabled)},
		{"sound_enabled", fmt.Sprintf("%t", settings.SoundEnabled)},
		{"start_with_system", fmt.Sprintf("%t", settings.StartWithSystem)},
		{"theme", string(settings.Theme)},
	}
	var builder strings.Builder
	for _, row := range rows {
		builder.WriteString(r.faint.Render(padRight(row[0], 26)) + r.normal.Render(row[1]) + "\n")
	}
	return builder.String()
}

func (r *Renderer) goalStyle(stats intake.DailyStats) lipgloss.Style {
	if stats.GoalMet() {
		return r.met
	}
	return r.missed
}

// table lays out rows under headers, measuring styled cells by their
// visible width. rightAlign selects per-column alignment.
func (r *Renderer) table(headers []string, rows [][]string, rightAlign []bool) string {
	widths := make([]int, len(headers))
	for column, header := range headers {
		widths[column] = ansi.StringWidth(header)
	}
	for _, row := range rows {
		for column, cell := range row {
			widths[column] = max(widths[column], ansi.StringWidth(cell))
		}
	}

	var builder strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		parts := make([]string, len(cells))
		for column, cell := range cells {
			if rightAlign[column] {
				parts[column] = padLeft(cell, widths[column])
			} else {
				parts[column] = padRight(cell, widths[column])
			}
			if style != nil {
				parts[column] = style(parts[column])
			}
		}
		builder.WriteString(strings.TrimRight(strings.Join(parts, "  "), " ") + "\n")
	}

	writeRow(headers, func(text string) string { return r.faint.Render(text) })
	for _, row := range rows {
		writeRow(row, nil)
	}
	return builder.String()
}

func padRight(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func padLeft(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return strings.Repeat(" ", gap) + text
	}
	return text
}

func plural(count int, singular, pluralForm string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, pluralForm)
}
