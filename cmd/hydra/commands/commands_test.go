// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/daemon"
	"github.com/hydra-tracker/hydra/lib/intake"
	"github.com/hydra-tracker/hydra/lib/testutil"
)

// testEnv is an isolated configuration: database, socket, lock and
// autostart directory under one temp dir.
type testEnv struct {
	dir          string
	configPath   string
	autostartDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:          dir,
		configPath:   filepath.Join(dir, "config.yaml"),
		autostartDir: filepath.Join(dir, "autostart"),
	}
	config := strings.Join([]string{
		"paths:",
		"  database: " + filepath.Join(dir, "hydra.db"),
		"  socket: " + filepath.Join(testutil.SocketDir(t), "hydra.sock"),
		"  autostart: " + env.autostartDir,
		"notifications:",
		"  command: \"true\"",
		"display:",
		"  no_color: true",
		"log:",
		"  level: error",
		"",
	}, "\n")
	if err := os.WriteFile(env.configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("HYDRA_CONFIG", env.configPath)
	t.Setenv(passphraseEnv, "")
	return env
}

// run executes hydra with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var output bytes.Buffer
	previousStdout, previousHelp := cli.Stdout, cli.HelpOutput
	cli.Stdout, cli.HelpOutput = &output, io.Discard
	defer func() { cli.Stdout, cli.HelpOutput = previousStdout, previousHelp }()

	err := Root().Execute(args)
	return output.String(), err
}

// mustRunJSON runs a --json command and decodes its output.
func mustRunJSON(t *testing.T, result any, args ...string) {
	t.Helper()
	output, err := run(t, append(args, "--json")...)
	if err != nil {
		t.Fatalf("hydra %s: %v", strings.Join(args, " "), err)
	}
	if err := json.Unmarshal([]byte(output), result); err != nil {
		t.Fatalf("hydra %s: decoding %q: %v", strings.Join(args, " "), output, err)
	}
}

func TestAddAndToday(t *testing.T) {
	newTestEnv(t)

	var first addResult
	mustRunJSON(t, &first, "add", "250")
	if first.Entry.AmountML != 250 || first.Today.TotalML != 250 {
		t.Fatalf("first add = %+v", first)
	}

	var second addResult
	mustRunJSON(t, &second, "add", "0.5l")
	if second.Today.TotalML != 750 || second.Today.EntriesCount != 2 {
		t.Errorf("today after second add = %+v, want 750 ml over 2 entries", second.Today)
	}
	if second.Today.GoalML != intake.DefaultSettings().DailyGoalML {
		t.Errorf("goal = %d, want the default", second.Today.GoalML)
	}

	var today todayResult
	mustRunJSON(t, &today, "today")
	if len(today.Entries) != 2 || today.Entries[0].ID != first.Entry.ID {
		t.Errorf("today entries = %+v", today.Entries)
	}

	output, err := run(t, "add", "300")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(output, "Added 300 ml") || !strings.Contains(output, "1050 / 4000 ml") {
		t.Errorf("add output = %q", output)
	}
}

func TestAddRejectsInvalidAmounts(t *testing.T) {
	newTestEnv(t)

	for _, amount := range []string{"0", "-250", "lots"} {
		_, err := run(t, "add", "--", amount)
		if !intake.IsKind(err, intake.KindValidation) {
			t.Errorf("add %s: error = %v, want a validation error", amount, err)
		}
	}

	var today todayResult
	mustRunJSON(t, &today, "today")
	if len(today.Entries) != 0 {
		t.Errorf("rejected amounts were stored: %+v", today.Entries)
	}
}

func TestRemove(t *testing.T) {
	newTestEnv(t)

	var added addResult
	mustRunJSON(t, &added, "add", "250")
	id := added.Entry.ID

	if _, err := run(t, "remove", "#"+itoa(id)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, err := run(t, "remove", itoa(id))
	if err == nil || !strings.Contains(err.Error(), "no entry #"+itoa(id)) {
		t.Errorf("second remove error = %v, want no entry", err)
	}
	if _, err := run(t, "remove", "abc"); !intake.IsKind(err, intake.KindValidation) {
		t.Errorf("remove abc: error = %v, want a validation error", err)
	}
}

func TestSettingsSet(t *testing.T) {
	newTestEnv(t)

	var updated intake.Settings
	mustRunJSON(t, &updated, "settings", "set", "--goal", "3000", "--interval", "45", "--theme", "LIGHT", "--sound", "off")
	want := intake.DefaultSettings()
	want.DailyGoalML = 3000
	want.ReminderIntervalMinutes = 45
	want.Theme = intake.ThemeLight
	want.SoundEnabled = false
	if updated != want {
		t.Errorf("updated = %+v, want %+v", updated, want)
	}

	var shown intake.Settings
	mustRunJSON(t, &shown, "settings")
	if shown != want {
		t.Errorf("settings = %+v, want %+v", shown, want)
	}
}

func TestSettingsSetValidatesBeforeSaving(t *testing.T) {
	newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"zero goal", []string{"--goal", "0", "--interval", "30"}},
		{"negative interval", []string{"--interval", "-5"}},
		{"unknown theme", []string{"--theme", "blue"}},
		{"bad switch", []string{"--reminders", "maybe"}},
		{"no flags", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := run(t, append([]string{"settings", "set"}, test.args...)...)
			if !intake.IsKind(err, intake.KindValidation) {
				t.Errorf("error = %v, want a validation error", err)
			}
		})
	}

	var shown intake.Settings
	mustRunJSON(t, &shown, "settings", "show")
	if shown != intake.DefaultSettings() {
		t.Errorf("settings changed after rejected updates: %+v", shown)
	}
}

func TestAutostartFollowsTheDesktopEntry(t *testing.T) {
	env := newTestEnv(t)
	entryPath := filepath.Join(env.autostartDir, "hydra.desktop")

	var updated intake.Settings
	mustRunJSON(t, &updated, "settings", "set", "--autostart", "on")
	if !updated.StartWithSystem {
		t.Fatal("start_with_system not saved")
	}
	data, err := os.ReadFile(entryPath)
	if err != nil {
		t.Fatalf("reading desktop entry: %v", err)
	}
	if !strings.Contains(string(data), "serve --hidden --config") {
		t.Errorf("desktop entry does not start the daemon:\n%s", data)
	}

	// Removing the entry outside hydra wins over the stored setting.
	if err := os.Remove(entryPath); err != nil {
		t.Fatalf("removing desktop entry: %v", err)
	}
	var shown intake.Settings
	mustRunJSON(t, &shown, "settings", "show")
	if shown.StartWithSystem {
		t.Error("start_with_system still on after the desktop entry was removed")
	}
}

func TestMonthAndYear(t *testing.T) {
	newTestEnv(t)
	mustRunJSON(t, &addResult{}, "add", "4000")
	now := time.Now()

	var month intake.MonthlyStats
	mustRunJSON(t, &month, "month")
	if month.Year != now.Year() || month.TotalML != 4000 || month.DaysGoalMet != 1 {
		t.Errorf("month = %+v", month)
	}
	if month.CurrentStreak != 1 || month.BestStreak != 1 {
		t.Errorf("streaks = %d/%d, want 1/1", month.CurrentStreak, month.BestStreak)
	}

	var empty intake.MonthlyStats
	mustRunJSON(t, &empty, "month", "1999-02")
	if len(empty.Days) != 0 || empty.AverageML != 0 {
		t.Errorf("empty month = %+v", empty)
	}

	var year yearResult
	mustRunJSON(t, &year, "year")
	if year.Year != now.Year() || len(year.Months) != 12 {
		t.Fatalf("year = %d with %d months", year.Year, len(year.Months))
	}
	if year.Months[now.Month()-1].TotalML != 4000 {
		t.Errorf("current month in year view = %+v", year.Months[now.Month()-1])
	}

	if _, err := run(t, "month", "2026-13"); !intake.IsKind(err, intake.KindValidation) {
		t.Errorf("month 2026-13: error = %v, want a validation error", err)
	}
}

func TestExportImportWithPassphrase(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(passphraseEnv, "correct horse battery staple")
	backupPath := filepath.Join(env.dir, "hydra.backup")

	mustRunJSON(t, &addResult{}, "add", "250")
	mustRunJSON(t, &addResult{}, "add", "500")
	mustRunJSON(t, &intake.Settings{}, "settings", "set", "--goal", "2500")

	var exported backupSummary
	mustRunJSON(t, &exported, "export", backupPath, "--passphrase")
	if exported.Entries != 2 || !exported.Encrypted {
		t.Fatalf("export summary = %+v", exported)
	}

	var today todayResult
	mustRunJSON(t, &today, "today")
	for _, entry := range today.Entries {
		if _, err := run(t, "remove", itoa(entry.ID)); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	mustRunJSON(t, &intake.Settings{}, "settings", "set", "--goal", "1000")

	if _, err := run(t, "import", backupPath, "--passphrase"); !intake.IsKind(err, intake.KindValidation) {
		t.Errorf("import without --replace: error = %v, want a validation error", err)
	}
	if _, err := run(t, "import", backupPath, "--replace"); err == nil || !strings.Contains(err.Error(), "--passphrase") {
		t.Errorf("import without identity: error = %v, want a hint", err)
	}

	var imported backupSummary
	mustRunJSON(t, &imported, "import", backupPath, "--passphrase", "--replace")
	if imported.Entries != 2 {
		t.Errorf("import summary = %+v", imported)
	}

	mustRunJSON(t, &today, "today")
	if today.Stats.TotalML != 750 || today.Stats.GoalML != 2500 {
		t.Errorf("after import today = %+v, want 750 of 2500 ml", today.Stats)
	}
}

func TestExportPlain(t *testing.T) {
	env := newTestEnv(t)
	backupPath := filepath.Join(env.dir, "plain.backup")
	mustRunJSON(t, &addResult{}, "add", "250")

	var exported backupSummary
	mustRunJSON(t, &exported, "export", backupPath)
	if exported.Encrypted || exported.Entries != 1 {
		t.Errorf("export summary = %+v", exported)
	}

	if _, err := run(t, "export", backupPath, "--passphrase", "--recipient", "age1xyz"); !intake.IsKind(err, intake.KindValidation) {
		t.Errorf("passphrase with recipient: error = %v, want a validation error", err)
	}
	if _, err := run(t, "export", backupPath, "--passphrase"); err == nil {
		t.Error("export --passphrase without a terminal or $HYDRA_PASSPHRASE succeeded")
	}
}

func TestNotificationsPermission(t *testing.T) {
	newTestEnv(t)

	var status notificationsStatus
	mustRunJSON(t, &status, "notifications")
	if status.Permission != "not asked yet" || !status.Available {
		t.Errorf("initial status = %+v", status)
	}

	if _, err := run(t, "notifications", "deny"); err != nil {
		t.Fatalf("deny: %v", err)
	}
	mustRunJSON(t, &status, "notifications", "status")
	if status.Permission != string(intake.PermissionRefused) {
		t.Errorf("permission = %q, want denied", status.Permission)
	}
}

func TestQuickWithoutDaemon(t *testing.T) {
	newTestEnv(t)

	var entry intake.Entry
	mustRunJSON(t, &entry, "quick", "bottle")
	if entry.AmountML != 500 {
		t.Errorf("quick bottle = %+v", entry)
	}
	if _, err := run(t, "quick", "bucket"); !intake.IsKind(err, intake.KindValidation) {
		t.Errorf("quick bucket: error = %v, want a validation error", err)
	}
}

func TestServeAndStatus(t *testing.T) {
	newTestEnv(t)

	_, err := run(t, "status")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("status without daemon: error = %v, want exit code 1", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	serveDone := make(chan error, 1)
	go func() { serveDone <- runServe(ctx, serveParams{Hidden: true}, ready) }()

	select {
	case <-ready:
	case err := <-serveDone:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not become ready")
	}

	var status daemon.Status
	mustRunJSON(t, &status, "status")
	if status.PID != os.Getpid() {
		t.Errorf("status pid = %d, want %d", status.PID, os.Getpid())
	}
	if status.Reminders == nil || !status.Reminders.Armed || status.Reminders.Interval != time.Hour {
		t.Errorf("reminders = %+v, want armed every hour", status.Reminders)
	}

	var entry intake.Entry
	mustRunJSON(t, &entry, "quick")
	if entry.AmountML != 250 {
		t.Errorf("quick via daemon = %+v", entry)
	}

	mustRunJSON(t, &intake.Settings{}, "settings", "set", "--interval", "30")
	mustRunJSON(t, &status, "status")
	if status.Today.TotalML != 250 {
		t.Errorf("daemon today = %+v, want 250 ml", status.Today)
	}
	if status.Reminders == nil || status.Reminders.Interval != 30*time.Minute {
		t.Errorf("reminders after reload = %+v, want every 30 minutes", status.Reminders)
	}

	// A second hidden daemon defers to the first.
	if err := runServe(ctx, serveParams{Hidden: true}, nil); err != nil {
		t.Errorf("second hidden serve: %v", err)
	}

	cancel()
	if err := testutil.RequireReceive(t, serveDone, 10*time.Second, "daemon shutdown"); err != nil {
		t.Errorf("serve: %v", err)
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	_, err := run(t, "ad", "250")
	if err == nil || !strings.Contains(err.Error(), `did you mean "add"`) {
		t.Errorf("error = %v, want a suggestion", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int
		valid bool
	}{
		{"250", 250, true},
		{"250ml", 250, true},
		{" 330 ML ", 330, true},
		{"0.5l", 500, true},
		{"1.25L", 1250, true},
		{"0", 0, false},
		{"-100", 0, false},
		{"0.0001l", 0, false},
		{"NaN", 0, false},
		{"glass", 0, false},
	}
	for _, test := range tests {
		got, err := parseAmount(test.input)
		if test.valid && (err != nil || got != test.want) {
			t.Errorf("parseAmount(%q) = %d, %v; want %d", test.input, got, err, test.want)
		}
		if !test.valid && !intake.IsKind(err, intake.KindValidation) {
			t.Errorf("parseAmount(%q) error = %v, want a validation error", test.input, err)
		}
	}
}

func TestParseSwitch(t *testing.T) {
	for _, input := range []string{"on", "ON", "true", "yes", "1"} {
		if got, err := parseSwitch(input); err != nil || !got {
			t.Errorf("parseSwitch(%q) = %v, %v; want true", input, got, err)
		}
	}
	for _, input := range []string{"off", "false", "No", "0"} {
		if got, err := parseSwitch(input); err != nil || got {
			t.Errorf("parseSwitch(%q) = %v, %v; want false", input, got, err)
		}
	}
	if _, err := parseSwitch("sometimes"); err == nil {
		t.Error("parseSwitch accepted sometimes")
	}
}

func TestAutostartArguments(t *testing.T) {
	if got := autostartArguments(""); strings.Join(got, " ") != "serve --hidden" {
		t.Errorf("arguments = %q", got)
	}
	got := autostartArguments("relative.yaml")
	if len(got) != 4 || got[2] != "--config" || !filepath.IsAbs(got[3]) {
		t.Errorf("arguments with config = %q, want an absolute --config", got)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
