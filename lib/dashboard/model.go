// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/render"
)

const (
	smallAmountML = 250
	largeAmountML = 500

	// refreshInterval picks up entries added by other processes and
	// rolls the view over at midnight.
	refreshInterval = 30 * time.Second
)

// Source is what the dashboard reads and writes. *tracker.Tracker
// implements it.
type Source interface {
	TodayStats(ctx context.Context) (intake.DailyStats, error)
	TodayEntries(ctx context.Context) ([]intake.Entry, error)
	AddWater(ctx context.Context, amountML int) (intake.Entry, error)
	RemoveEntry(ctx context.Context, id int64) error
}

type snapshotMsg struct {
	stats   intake.DailyStats
	entries []intake.Entry
	err     error
}

type mutationMsg struct {
	status string
	err    error
}

type tickMsg struct{}

// Model is the dashboard's bubbletea model.
type Model struct {
	ctx      context.Context
	source   Source
	renderer *render.Renderer
	keys     KeyMap

	stats   intake.DailyStats
	entries []intake.Entry
	loaded  bool
	status  string
	err     error
}

// NewModel returns a dashboard over source drawing with renderer.
func NewModel(ctx context.Context, source Source, renderer *render.Renderer) Model {
	return Model{ctx: ctx, source: source, renderer: renderer, keys: DefaultKeyMap}
}

// Init implements tea.Model: load the first snapshot and start the
// refresh timer.
func (model Model) Init() tea.Cmd {
	return tea.Batch(model.load(), scheduleRefresh())
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.AddSmall):
			return model, model.add(smallAmountML)
		case key.Matches(message, model.keys.AddLarge):
			return model, model.add(largeAmountML)
		case key.Matches(message, model.keys.RemoveLast):
			if len(model.entries) == 0 {
				model.status = "nothing to undo today"
				return model, nil
			}
			return model, model.remove(model.entries[len(model.entries)-1])
		case key.Matches(message, model.keys.Refresh):
			return model, model.load()
		}

	case snapshotMsg:
		model.err = message.err
		if message.err == nil {
			model.stats = message.stats
			model.entries = message.entries
			model.loaded = true
		}

	case mutationMsg:
		model.err = message.err
		if message.err != nil {
			return model, nil
		}
		model.status = message.status
		return model, model.load()

	case tickMsg:
		return model, tea.Batch(model.load(), scheduleRefresh())
	}
	return model, nil
}

// View implements tea.Model.
func (model Model) View() string {
	var builder strings.Builder
	builder.WriteString("\n")
	if model.loaded {
		builder.WriteString(model.renderer.Today(model.stats, model.entries))
	} else {
		builder.WriteString("  loading...\n")
	}
	builder.WriteString("\n")

	switch {
	case model.err != nil:
		fmt.Fprintf(&builder, "  error: %v\n", model.err)
	case model.status != "":
		fmt.Fprintf(&builder, "  %s\n", model.status)
	}

	help := make([]string, 0, len(model.keys.bindings()))
	for _, binding := range model.keys.bindings() {
		keyHelp := binding.Help()
		help = append(help, keyHelp.Key+" "+keyHelp.Desc)
	}
	builder.WriteString("\n  " + strings.Join(help, "  •  ") + "\n")
	return builder.String()
}

func (model Model) load() tea.Cmd {
	return func() tea.Msg {
		stats, err := model.source.TodayStats(model.ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}
		entries, err := model.source.TodayEntries(model.ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{stats: stats, entries: entries}
	}
}

func (model Model) add(amountML int) tea.Cmd {
	return func() tea.Msg {
		entry, err := model.source.AddWater(model.ctx, amountML)
		if err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{status: fmt.Sprintf("added %d ml at %s", entry.AmountML, entry.Timestamp.Format("15:04"))}
	}
}

func (model Model) remove(entry intake.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := model.source.RemoveEntry(model.ctx, entry.ID); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{status: fmt.Sprintf("removed %d ml from %s", entry.AmountML, entry.Timestamp.Format("15:04"))}
	}
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}
