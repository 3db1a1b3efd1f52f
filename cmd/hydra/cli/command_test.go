// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func silenceHelp(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buffer bytes.Buffer
	saved := HelpOutput
	HelpOutput = &buffer
	t.Cleanup(func() { HelpOutput = saved })
	return &buffer
}

func TestExecuteDispatchesToSubcommand(t *testing.T) {
	var called string
	root := &Command{
		Name: "hydra",
		Subcommands: []*Command{
			{Name: "today", Run: func([]string) error { called = "today"; return nil }},
			{Name: "month", Run: func([]string) error { called = "month"; return nil }},
		},
	}

	if err := root.Execute([]string{"month"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "month" {
		t.Errorf("dispatched to %q, want month", called)
	}
}

func TestExecuteNestedSubcommands(t *testing.T) {
	var receivedArgs []string
	root := &Command{
		Name: "hydra",
		Subcommands: []*Command{
			{
				Name: "settings",
				Subcommands: []*Command{
					{Name: "set", Run: func(args []string) error { receivedArgs = args; return nil }},
				},
			},
		},
	}

	if err := root.Execute([]string{"settings", "set", "goal=3000"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "goal=3000" {
		t.Errorf("args = %v, want [goal=3000]", receivedArgs)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var params struct {
		JSONOutput
		At string `flag:"at" desc:"timestamp"`
	}
	var amount string
	command := &Command{
		Name:  "add",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("add", &params) },
		Run: func(args []string) error {
			amount = args[0]
			return nil
		},
	}

	if err := command.Execute([]string{"--json", "--at", "08:30", "250"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.OutputJSON || params.At != "08:30" || amount != "250" {
		t.Errorf("params = %+v, amount = %q", params, amount)
	}
}

func TestExecuteUnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "export",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
			flagSet.StringSlice("recipient", nil, "age recipient")
			flagSet.Bool("passphrase", false, "encrypt with a passphrase")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--recipeint", "age1xyz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	message := err.Error()
	if !strings.Contains(message, "did you mean --recipient") {
		t.Errorf("error = %q, want suggestion for --recipient", message)
	}
	if !strings.Contains(message, "--help") {
		t.Errorf("error = %q, should point to --help", message)
	}
}

func TestExecuteUnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "export",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
			flagSet.Bool("passphrase", false, "")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for a distant flag", err)
	}
}

func TestExecuteUnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name:        "hydra",
		Subcommands: []*Command{{Name: "today"}, {Name: "month"}, {Name: "year"}},
	}

	err := root.Execute([]string{"mnoth"})
	if err == nil {
		t.Fatal("Execute() = nil, want error")
	}
	if !strings.Contains(err.Error(), `did you mean "month"`) {
		t.Errorf("error = %q, want suggestion for month", err)
	}

	err = root.Execute([]string{"zzzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want unknown command without suggestion", err)
	}
}

func TestExecuteFallsBackToRun(t *testing.T) {
	var received []string
	command := &Command{
		Name:        "settings",
		Subcommands: []*Command{{Name: "set"}},
		Run:         func(args []string) error { received = args; return nil },
	}

	if err := command.Execute(nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(received) != 0 {
		t.Errorf("args = %v, want none", received)
	}
}

func TestExecuteHelp(t *testing.T) {
	help := silenceHelp(t)
	root := &Command{
		Name:        "hydra",
		Description: "Hydra: water intake tracker.",
		Subcommands: []*Command{{Name: "today", Summary: "Show today's progress"}},
		Examples:    []Example{{Description: "Log a glass", Command: "hydra add 250"}},
	}

	for _, helpArg := range []string{"-h", "--help", "help"} {
		help.Reset()
		if err := root.Execute([]string{helpArg}); err != nil {
			t.Errorf("Execute(%q) error: %v", helpArg, err)
		}
		output := help.String()
		for _, want := range []string{"Hydra: water intake tracker.", "today", "Show today's progress", "hydra add 250"} {
			if !strings.Contains(output, want) {
				t.Errorf("help for %q missing %q:\n%s", helpArg, want, output)
			}
		}
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	silenceHelp(t)
	root := &Command{Name: "hydra", Subcommands: []*Command{{Name: "today"}}}
	if err := root.Execute(nil); err == nil {
		t.Error("Execute() = nil, want subcommand required")
	}
}

func TestFullNameIncludesParents(t *testing.T) {
	help := silenceHelp(t)
	set := &Command{Name: "set", Flags: func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("set", pflag.ContinueOnError)
		flagSet.Int("goal", 0, "daily goal")
		return flagSet
	}}
	root := &Command{Name: "hydra", Subcommands: []*Command{{Name: "settings", Subcommands: []*Command{set}}}}

	root.Execute([]string{"settings", "set", "--help"})
	if !strings.Contains(help.String(), "hydra settings set [flags]") {
		t.Errorf("help = %q, want full command path", help.String())
	}
}
