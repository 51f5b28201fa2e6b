// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

func TestArgParserFlags(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		flag string
		want string
	}{
		{"space separated", []string{"--deployment", "dep123"}, "deployment", "dep123"},
		{"equals form", []string{"--out=exports/run1"}, "out", "exports/run1"},
		{"short flag", []string{"-d", "dep123"}, "d", "dep123"},
		{"missing flag", []string{"--out", "x"}, "deployment", ""},
		{"lookup with dashes", []string{"--limit", "5"}, "--limit", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.raw)
			if got := p.Flag(tt.flag); got != tt.want {
				t.Errorf("Flag(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestArgParserBoolFlags(t *testing.T) {
	p := NewArgParser([]string{"--recursive", "--yes=false", "--all=true"})

	if !p.BoolFlag("recursive") {
		t.Error("expected --recursive to be true")
	}
	if p.BoolFlag("yes") {
		t.Error("expected --yes=false to be false")
	}
	if !p.BoolFlag("all") {
		t.Error("expected --all=true to be true")
	}
	if p.BoolFlag("absent") {
		t.Error("expected absent flag to be false")
	}
}

func TestArgParserPositional(t *testing.T) {
	p := NewArgParser([]string{"show", "GPU", "Cost", "--limit", "5"})

	if p.Subcommand() != "show" {
		t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), "show")
	}
	if p.PositionalCount() != 3 {
		t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
	}
	rest := p.PositionalFrom(1)
	if len(rest) != 2 || rest[0] != "GPU" || rest[1] != "Cost" {
		t.Errorf("PositionalFrom(1) = %v", rest)
	}
	if p.Positional(10) != "" {
		t.Error("out-of-bounds positional should be empty")
	}
}

func TestArgParserFlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want int
	}{
		{"valid", []string{"--limit", "25"}, 25},
		{"absent", []string{}, 10},
		{"not a number", []string{"--limit", "many"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.raw)
			if got := p.FlagIntOrDefault("limit", 10); got != tt.want {
				t.Errorf("FlagIntOrDefault = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArgParserHasFlag(t *testing.T) {
	p := NewArgParser([]string{"--dir", "papers", "--recursive"})

	if !p.HasFlag("dir") {
		t.Error("expected HasFlag(dir) = true")
	}
	if !p.HasFlag("recursive") {
		t.Error("expected HasFlag(recursive) = true")
	}
	if p.HasFlag("yes") {
		t.Error("expected HasFlag(yes) = false")
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args", nil, CmdHelp},
		{"sessions", []string{"sessions"}, CmdSessions},
		{"projects", []string{"projects"}, CmdProjects},
		{"convos", []string{"convos", "--all"}, CmdConvos},
		{"conversations alias", []string{"conversations"}, CmdConvos},
		{"discover", []string{"discover"}, CmdDiscover},
		{"search", []string{"search", "term"}, CmdSearch},
		{"pdf", []string{"pdf", "--yes"}, CmdPDF},
		{"history", []string{"history"}, CmdHistory},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown", []string{"frobnicate"}, cmdUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := Parse(tt.argv)
			if cmd != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParseKeepsCommandArgs(t *testing.T) {
	cmd, args := Parse([]string{"search", "GPU", "Cost", "--deployment", "dep1"})
	if cmd != CmdSearch {
		t.Fatalf("expected CmdSearch, got %v", cmd)
	}
	if args.Positional(0) != "GPU" {
		t.Errorf("expected first positional %q, got %q", "GPU", args.Positional(0))
	}
	if args.Flag("deployment") != "dep1" {
		t.Errorf("expected deployment flag, got %q", args.Flag("deployment"))
	}
}

func TestGetExitCode(t *testing.T) {
	if got := GetExitCode(nil); got != ExitSuccess {
		t.Errorf("nil error should exit %d, got %d", ExitSuccess, got)
	}
	if got := GetExitCode(NewUsageError("bad usage")); got != ExitUsageError {
		t.Errorf("usage error should exit %d, got %d", ExitUsageError, got)
	}
	if got := GetExitCode(NewCommandError("sessions", "listing failed", nil)); got != ExitGeneralError {
		t.Errorf("command error should exit %d, got %d", ExitGeneralError, got)
	}
}
