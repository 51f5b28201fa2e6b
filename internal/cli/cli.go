// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command dispatch for the aiexport binary.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies one top-level aiexport command.
type Command int

const (
	CmdHelp Command = iota
	CmdSessions
	CmdProjects
	CmdConvos
	CmdDiscover
	CmdSearch
	CmdPDF
	CmdHistory
	CmdConfig
	CmdVersion
	cmdUnknown
)

// Parse splits argv into the command word and its arguments. No arguments
// means help.
func Parse(argv []string) (Command, *ArgParser) {
	if len(argv) == 0 {
		return CmdHelp, NewArgParser(nil)
	}

	args := NewArgParser(argv[1:])
	switch argv[0] {
	case "sessions":
		return CmdSessions, args
	case "projects":
		return CmdProjects, args
	case "convos", "conversations":
		return CmdConvos, args
	case "discover":
		return CmdDiscover, args
	case "search":
		return CmdSearch, args
	case "pdf":
		return CmdPDF, args
	case "history":
		return CmdHistory, args
	case "config":
		return CmdConfig, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		return cmdUnknown, NewArgParser(argv)
	}
}

// Run parses argv, dispatches to the command handler, and returns the
// process exit code.
func Run(argv []string) int {
	cmd, args := Parse(argv)

	var err error
	switch cmd {
	case CmdSessions:
		err = HandleSessions(args)
	case CmdProjects:
		err = HandleProjects(args)
	case CmdConvos:
		err = HandleConvos(args)
	case CmdDiscover:
		err = HandleDiscover(args)
	case CmdSearch:
		err = HandleSearch(args)
	case CmdPDF:
		err = HandlePDF(args)
	case CmdHistory:
		err = HandleHistory(args)
	case CmdConfig:
		err = HandleConfig(args)
	case CmdVersion:
		err = HandleVersion(args)
	case CmdHelp:
		HandleHelp()
	case cmdUnknown:
		err = NewUsageError("unknown command %q; run 'aiexport help'", args.Positional(0))
	}

	if err != nil {
		DisplayError(err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// HandleVersion prints version information, as JSON with --json.
func HandleVersion(args *ArgParser) error {
	if args.BoolFlag("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"version":    Version,
			"commit":     GitCommit,
			"build_date": BuildDate,
		})
	}

	fmt.Printf("aiexport %s\n", Version)
	fmt.Printf("%s%s\n", RenderLabel("Commit:"), GitCommit)
	fmt.Printf("%s%s\n", RenderLabel("Built:"), BuildDate)
	return nil
}

const usageText = `aiexport - export conversational AI data from Abacus.AI

USAGE:
  aiexport <command> [flags]

COMMANDS:
  sessions   Export all AI chat sessions (JSON + HTML)
  projects   Export chats and agent conversations per project
  convos     Export deployment conversations
  discover   Walk the account and report what is exportable
  search     Find a chat or conversation by id or name
  pdf        Upload PDFs and run the analysis prompts
  history    Show recent export history
  config     Show or initialize configuration
  version    Print version information
  help       Show this help

FLAGS:
  --out DIR          Output directory (sessions, projects, convos)
  --limit N          Limit the number of items (sessions, history)
  --deployment ID    Deployment id (convos, search, pdf)
  --all              All deployments across all projects (convos)
  --dir DIR          Directory to scan for PDFs (pdf)
  --recursive        Include subdirectories (pdf)
  --yes              Skip interactive confirmation (pdf)
  --json             JSON output (version)

ENVIRONMENT:
  ABACUS_API_KEY        API credential (required for platform commands)
  ABACUS_DEPLOYMENT_ID  Default deployment for convos/search/pdf
  AIEXPORT_OUT_DIR      Output directory override
`

// HandleHelp prints the usage text.
func HandleHelp() {
	fmt.Print(usageText)
}
