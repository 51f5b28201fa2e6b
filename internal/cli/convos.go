// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// convos.go - Export deployment conversations, for one deployment or for
// every deployment across all projects.

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

// HandleConvos exports deployment conversations. With --all it walks every
// deployment of every project; otherwise it uses the configured deployment.
func HandleConvos(args *ArgParser) error {
	all := args.BoolFlag("all")

	cfg, client, err := loadRuntime(args, !all)
	if err != nil {
		return err
	}
	ctx := context.Background()

	outDir := filepath.Join(cfg.OutputDir, "deployment_conversations")
	if err := export.EnsureDir(outDir); err != nil {
		return err
	}
	exporter := export.New(export.Options{OutputDir: outDir})

	cat := openCatalog(cfg)
	if cat != nil {
		defer cat.Close()
	}

	fmt.Println(TitleStyle.Render("Exporting deployment conversations"))

	driver := &batch.Driver{
		List: func(ctx context.Context) ([]export.Resource, error) {
			if !all {
				deployments := []abacus.Deployment{{DeploymentID: cfg.DeploymentID}}
				// Single-deployment run: the conversation listing is the
				// lister, so a failure is fatal.
				return listConversations(ctx, client, deployments, true)
			}

			deployments, err := client.ListDeployments(ctx, "")
			if err != nil {
				return nil, err
			}
			fmt.Printf("  found %d deployment(s)\n", len(deployments))
			return listConversations(ctx, client, deployments, false)
		},
		Export: conversationExport(client, exporter, cat),
		OnItem: printItemProgress,
	}

	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	printRunSummary(result, outDir)
	return nil
}

// listConversations enumerates the conversations of the given deployments
// as export resources. With strict set a per-deployment listing failure is
// fatal; otherwise it is reported and the deployment skipped.
func listConversations(ctx context.Context, client *abacus.Client, deployments []abacus.Deployment, strict bool) ([]export.Resource, error) {
	var resources []export.Resource
	for _, d := range deployments {
		convos, err := client.ListDeploymentConversations(ctx, d.DeploymentID)
		if err != nil {
			if strict {
				return nil, err
			}
			fmt.Printf("  %s deployment %s: %v\n", RenderStatus("warn"), d.DeploymentID, err)
			continue
		}
		for _, convo := range convos {
			resources = append(resources, export.Resource{
				ID:          convo.DeploymentConversationID,
				DisplayName: convo.Name,
				CreatedAt:   convo.CreatedAt,
				Payload:     convo,
				History:     convo.History,
			})
		}
	}
	return resources, nil
}

// conversationExport exports one deployment conversation: full fetch for
// history, native HTML export with fallback synthesis, catalog recording.
func conversationExport(client *abacus.Client, exporter *export.Exporter, cat *catalog.Catalog) batch.ExportFunc {
	native := func(ctx context.Context, id string) ([]byte, error) {
		exp, err := client.ExportDeploymentConversation(ctx, id)
		if err != nil {
			return nil, err
		}
		return []byte(exp.ConversationExportHTML), nil
	}

	return func(ctx context.Context, res export.Resource) export.Result {
		if full, err := client.GetDeploymentConversation(ctx, res.ID); err == nil {
			res.Payload = full
			res.History = full.History
		}

		result := exporter.Export(ctx, res, native)
		recordArtifacts(ctx, cat, "deployment_conversation", result)
		return result
	}
}
