// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"ab", "abc", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"today", "tody", 1},
		{"settings", "setings", 1},
		{"export", "exprot", 2},
	}
	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "add"}, {Name: "remove"}, {Name: "today"}, {Name: "dashboard"}}
	tests := []struct {
		input string
		want  string
	}{
		{"tody", "today"},
		{"remvoe", "remove"},
		{"dashbord", "dashboard"},
		{"xyzzyplugh", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.String("identity", "", "")
	flagSet.BoolP("json", "j", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--identiy", "key.txt"}, "--identity"},
		{[]string{"--json", "--jsn"}, "--json"},
		{[]string{"-j", "--identity=x", "--idnetity=y"}, "--identity"},
		{[]string{"--completely-unrelated"}, ""},
		{[]string{"--", "--identiy"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
