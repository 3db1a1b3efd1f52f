// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hydra-tracker/hydra/lib/intake"
)

// Theme is a color palette. Colors are ANSI 256-color codes, except
// the progress gradient, which bubbles/progress blends in RGB.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Header     lipgloss.Color
	Border     lipgloss.Color

	// Water is the accent for amounts.
	Water lipgloss.Color

	GoalMet    lipgloss.Color
	GoalMissed lipgloss.Color

	ProgressStart string
	ProgressEnd   string
}

// DarkTheme suits terminals with a dark background.
var DarkTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Header:     lipgloss.Color("255"),
	Border:     lipgloss.Color("240"),

	Water: lipgloss.Color("75"), // light blue

	GoalMet:    lipgloss.Color("114"), // green
	GoalMissed: lipgloss.Color("220"), // amber

	ProgressStart: "#1E90FF",
	ProgressEnd:   "#7FDBFF",
}

// LightTheme suits terminals with a light background.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),
	Header:     lipgloss.Color("232"),
	Border:     lipgloss.Color("250"),

	Water: lipgloss.Color("25"), // deep blue

	GoalMet:    lipgloss.Color("28"),  // dark green
	GoalMissed: lipgloss.Color("130"), // brown-orange

	ProgressStart: "#0047AB",
	ProgressEnd:   "#1E90FF",
}

// ThemeFor maps the persisted theme setting to a palette. Unknown
// values get the dark palette, matching the default setting.
func ThemeFor(theme intake.Theme) Theme {
	if theme == intake.ThemeLight {
		return LightTheme
	}
	return DarkTheme
}
