// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	settings := DefaultSettings()
	if err := settings.Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
	if settings.DailyGoalML != 4000 || settings.ReminderIntervalMinutes != 60 {
		t.Errorf("defaults = %+v", settings)
	}
	if settings.ReminderInterval() != time.Hour {
		t.Errorf("ReminderInterval() = %v, want 1h", settings.ReminderInterval())
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero goal", func(s *Settings) { s.DailyGoalML = 0 }},
		{"negative goal", func(s *Settings) { s.DailyGoalML = -100 }},
		{"zero interval", func(s *Settings) { s.ReminderIntervalMinutes = 0 }},
		{"unknown theme", func(s *Settings) { s.Theme = "solarized" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			settings := DefaultSettings()
			test.mutate(&settings)
			err := settings.Validate()
			if !IsKind(err, KindValidation) {
				t.Fatalf("Validate() = %v, want a validation error", err)
			}
		})
	}
}

func TestSettingsPatch(t *testing.T) {
	goal := 2500
	theme := ThemeLight
	enabled := false
	patch := SettingsPatch{DailyGoalML: &goal, Theme: &theme, ReminderEnabled: &enabled}

	if patch.IsEmpty() {
		t.Fatal("non-empty patch reported empty")
	}
	if !(SettingsPatch{}).IsEmpty() {
		t.Fatal("zero patch reported non-empty")
	}

	got := patch.ApplyTo(DefaultSettings())
	want := DefaultSettings()
	want.DailyGoalML = 2500
	want.Theme = ThemeLight
	want.ReminderEnabled = false
	if got != want {
		t.Fatalf("ApplyTo = %+v, want %+v", got, want)
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("adding entry: %w", Store("writing: %w", cause))

	if KindOf(err) != KindStore {
		t.Fatalf("KindOf = %q, want %q", KindOf(err), KindStore)
	}
	if !errors.Is(err, cause) {
		t.Fatal("classified error does not unwrap to its cause")
	}
	if IsKind(nil, KindStore) {
		t.Fatal("IsKind(nil) = true")
	}
	if KindOf(cause) != "" {
		t.Fatalf("KindOf(unclassified) = %q, want empty", KindOf(cause))
	}
}

func TestPermissionDeniedIsAnErrorKind(t *testing.T) {
	err := PermissionDenied("notification permission was refused")
	if !IsKind(err, KindPermissionDenied) {
		t.Errorf("kind = %q, want %q", KindOf(err), KindPermissionDenied)
	}
	if PermissionRefused != "denied" {
		t.Errorf("stored refusal = %q, want denied", PermissionRefused)
	}
}

func TestValidateAmount(t *testing.T) {
	for _, amount := range []int{0, -1, -500} {
		if !IsKind(ValidateAmount(amount), KindValidation) {
			t.Errorf("ValidateAmount(%d) did not return a validation error", amount)
		}
	}
	if err := ValidateAmount(1); err != nil {
		t.Errorf("ValidateAmount(1) = %v", err)
	}
}

func TestGoalMet(t *testing.T) {
	if !(DailyStats{TotalML: 4000, GoalML: 4000, EntriesCount: 2}).GoalMet() {
		t.Error("total == goal should count as met")
	}
	if (DailyStats{TotalML: 3999, GoalML: 4000, EntriesCount: 2}).GoalMet() {
		t.Error("total < goal should not count as met")
	}
	if (DailyStats{GoalML: 0}).GoalMet() {
		t.Error("a day without entries should never count as met")
	}
}
