// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/hydra-tracker/hydra/lib/intake"
)

type quickAdd struct {
	Action   string `cbor:"action"`
	AmountML int    `cbor:"amount_ml,omitempty"`
}

func TestMarshalDeterministic(t *testing.T) {
	settings := map[string]any{
		"theme":         "dark",
		"daily_goal_ml": 4000,
		"sound_enabled": true,
	}

	first, err := Marshal(settings)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 5 {
		again, err := Marshal(settings)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding changed between runs: %x != %x", first, again)
		}
	}
}

func TestEntryKeepsSubsecondTimestamp(t *testing.T) {
	timestamp := time.Date(2026, 5, 3, 9, 30, 15, 123_000_000, time.UTC)
	original := intake.Entry{
		ID:        42,
		AmountML:  250,
		Timestamp: timestamp,
		Date:      intake.DayOf(timestamp),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded intake.Entry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !decoded.Timestamp.Equal(timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, timestamp)
	}
	if decoded.Date != original.Date || decoded.ID != 42 || decoded.AmountML != 250 {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestDayEncodesAsText(t *testing.T) {
	day := intake.Day{Year: 2026, Month: time.May, Day: 3}

	data, err := Marshal(day)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var text string
	if err := Unmarshal(data, &text); err != nil {
		t.Fatalf("Unmarshal into string: %v", err)
	}
	if text != "2026-05-03" {
		t.Errorf("encoded day = %q, want 2026-05-03", text)
	}
}

func TestStreamRoundtrip(t *testing.T) {
	requests := []quickAdd{
		{Action: "quick-add", AmountML: 250},
		{Action: "quick-add", AmountML: 500},
		{Action: "status"},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, request := range requests {
		if err := encoder.Encode(request); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range requests {
		var got quickAdd
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode request %d: %v", i, err)
		}
		if got != want {
			t.Errorf("request %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestAnyDecodesToStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"armed": true, "interval": "1h0m0s"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	object, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if object["armed"] != true {
		t.Errorf("armed = %v, want true", object["armed"])
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var request quickAdd
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &request); err == nil {
		t.Error("Unmarshal accepted invalid CBOR")
	}
}

func TestZeroEntryRoundtrip(t *testing.T) {
	data, err := Marshal(intake.Entry{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded := intake.Entry{ID: 9}
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.ID != 0 || !decoded.Date.IsZero() || !decoded.Timestamp.IsZero() {
		t.Errorf("decoded = %+v, want the zero entry", decoded)
	}
}
