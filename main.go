// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// aiexport exports conversational AI data from an Abacus.AI-style platform:
// chat sessions, projects, deployment conversations, and agents to local
// JSON/HTML artifacts, plus a batch PDF upload and analysis workflow.
//
// All command logic lives in internal/cli; main only dispatches and exits.
package main

import (
	"os"

	"github.com/jeranaias/aiexport/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
