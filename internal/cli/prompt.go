// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Interactive input via liner for the pdf workflow.

package cli

import (
	"strings"

	"github.com/peterh/liner"
)

// PromptLine reads one line of input with line editing. An empty answer or
// ctrl-C returns the default.
func PromptLine(label, def string) string {
	if !CanPrompt() {
		return def
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	prompt := label
	if def != "" {
		prompt += " [" + def + "]"
	}
	input, err := line.Prompt(prompt + ": ")
	if err != nil {
		return def
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// PromptYesNo asks a yes/no question. An empty answer or ctrl-C returns the
// default.
func PromptYesNo(question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer := PromptLine(question+" ["+hint+"]", "")
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
