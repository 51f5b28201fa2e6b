// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// pdf_cmd.go - Batch PDF upload and prompt processing.

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jeranaias/aiexport/internal/activity"
	"github.com/jeranaias/aiexport/internal/pdf"
)

// HandlePDF finds PDFs, confirms, uploads each into a fresh conversation,
// and runs the analysis prompts. --yes skips every prompt for scripted use.
func HandlePDF(args *ArgParser) error {
	cfg, client, err := loadRuntime(args, true)
	if err != nil {
		return err
	}
	ctx := context.Background()

	dir := args.FlagOrDefault("dir", ".")
	recursive := args.BoolFlag("recursive")
	yes := args.BoolFlag("yes")

	if !yes && !CanPrompt() {
		return NewUsageError("stdin is not a terminal; pass --yes (and --dir/--recursive) for non-interactive use")
	}

	if !yes {
		if !args.HasFlag("dir") {
			dir = PromptLine("PDF directory", dir)
		}
		if !args.HasFlag("recursive") {
			recursive = PromptYesNo("Include subdirectories?", false)
		}
	}

	pdfs, err := pdf.FindPDFs(dir, recursive)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Println(DimStyle.Render("No PDF files found."))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Found %d PDF file(s)", len(pdfs))))
	for _, path := range pdfs {
		fmt.Printf("  %s\n", DimStyle.Render(filepath.Base(path)))
	}
	fmt.Println()

	if !yes && !PromptYesNo(fmt.Sprintf("Process %d file(s) with %d prompt(s) each?", len(pdfs), len(pdf.AnalysisPrompts)), false) {
		fmt.Println(DimStyle.Render("Cancelled."))
		return nil
	}

	processor := &pdf.Processor{
		Platform:     client,
		DeploymentID: cfg.DeploymentID,
		Log:          activity.NewLog(cfg.ActivityLog),
		Printf: func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		},
	}

	successful, failed := processor.ProcessAll(ctx, pdfs)

	fmt.Println()
	fmt.Println(RenderSeparator())
	status := "ok"
	if failed > 0 {
		status = "warn"
	}
	fmt.Printf("%s processed %d of %d (%d failed)\n", RenderStatus(status), successful, len(pdfs), failed)
	fmt.Printf("%s%s\n", RenderLabel("Activity log:"), cfg.ActivityLog)
	return nil
}
