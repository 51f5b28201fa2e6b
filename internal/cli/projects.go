// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// projects.go - Per-project export walk.
//
// Iterates every project in the account and exports what the project's use
// case offers: chat sessions for CHAT_LLM, deployment conversations for
// AI_AGENT. A failing project is reported and the walk continues; only the
// project listing itself is fatal.

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jeranaias/aiexport/internal/abacus"
	"github.com/jeranaias/aiexport/internal/batch"
	"github.com/jeranaias/aiexport/internal/catalog"
	"github.com/jeranaias/aiexport/internal/export"
)

// HandleProjects exports all projects, one output directory per project.
func HandleProjects(args *ArgParser) error {
	cfg, client, err := loadRuntime(args, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	cat := openCatalog(cfg)
	if cat != nil {
		defer cat.Close()
	}

	fmt.Println(TitleStyle.Render("Exporting all projects"))

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("listing failed: %w", err)
	}
	if len(projects) == 0 {
		fmt.Println(DimStyle.Render("No projects found."))
		return nil
	}
	fmt.Printf("Found %d project(s)\n", len(projects))

	var totals batch.Result
	for _, project := range projects {
		fmt.Println()
		fmt.Println(RenderSeparator())
		fmt.Println(SectionStyle.Render(projectTitle(project)))
		fmt.Printf("%s%s\n", RenderLabel("ID:"), project.ProjectID)
		fmt.Printf("%s%s\n", RenderLabel("Use case:"), project.UseCase)

		result, err := exportProject(ctx, args, cfg.OutputDir, client, cat, project)
		if err != nil {
			fmt.Printf("%s %v\n", RenderStatus("warn"), err)
			continue
		}
		totals.Found += result.Found
		totals.Exported += result.Exported
		totals.Failed += result.Failed
	}

	printRunSummary(totals, cfg.OutputDir)
	return nil
}

func projectTitle(project abacus.Project) string {
	if project.Name != "" {
		return project.Name
	}
	return "project_" + project.ProjectID
}

// exportProject exports one project into its own subdirectory.
func exportProject(ctx context.Context, args *ArgParser, baseDir string, client *abacus.Client, cat *catalog.Catalog, project abacus.Project) (batch.Result, error) {
	dirName := export.Sanitize(projectTitle(project), export.DefaultMaxNameLen) + "_" + project.ProjectID
	outDir := filepath.Join(baseDir, dirName)
	if err := export.EnsureDir(outDir); err != nil {
		return batch.Result{}, err
	}
	exporter := export.New(export.Options{OutputDir: outDir})

	var driver *batch.Driver
	switch project.UseCase {
	case abacus.UseCaseChatLLM:
		driver = &batch.Driver{
			List:   sessionList(client, args.FlagIntOrDefault("limit", 0)),
			Export: sessionExport(client, exporter, cat),
			OnItem: printItemProgress,
		}

	case abacus.UseCaseAIAgent:
		driver = &batch.Driver{
			List: func(ctx context.Context) ([]export.Resource, error) {
				agents, err := client.ListAgents(ctx, project.ProjectID)
				if err == nil && len(agents) > 0 {
					fmt.Printf("  found %d agent(s)\n", len(agents))
				}
				deployments, err := client.ListDeployments(ctx, project.ProjectID)
				if err != nil {
					return nil, err
				}
				return listConversations(ctx, client, deployments, false)
			},
			Export: conversationExport(client, exporter, cat),
			OnItem: printItemProgress,
		}

	default:
		fmt.Printf("  %s\n", DimStyle.Render("unsupported use case, skipped"))
		return batch.Result{}, nil
	}

	return driver.Run(ctx)
}
