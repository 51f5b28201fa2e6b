// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Export all AI chat sessions.

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

// HandleSessions exports every chat session visible to the API key: JSON
// always, HTML via the native export with fallback synthesis.
func HandleSessions(args *ArgParser) error {
	cfg, client, err := loadRuntime(args, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	outDir := filepath.Join(cfg.OutputDir, "chat_sessions")
	if err := export.EnsureDir(outDir); err != nil {
		return err
	}
	exporter := export.New(export.Options{OutputDir: outDir})

	cat := openCatalog(cfg)
	if cat != nil {
		defer cat.Close()
	}

	limit := args.FlagIntOrDefault("limit", 0)

	fmt.Println(TitleStyle.Render("Exporting chat sessions"))

	driver := &batch.Driver{
		List:   sessionList(client, limit),
		Export: sessionExport(client, exporter, cat),
		OnItem: printItemProgress,
	}

	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	printRunSummary(result, outDir)
	return nil
}

// sessionList enumerates chat sessions as export resources. A positive
// limit truncates the listing.
func sessionList(client *abacus.Client, limit int) batch.ListFunc {
	return func(ctx context.Context) ([]export.Resource, error) {
		sessions, err := client.ListChatSessions(ctx)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		resources := make([]export.Resource, 0, len(sessions))
		for _, s := range sessions {
			resources = append(resources, export.Resource{
				ID:          s.ChatSessionID,
				DisplayName: s.Name,
				CreatedAt:   s.CreatedAt,
				Payload:     s,
				History:     s.ChatHistory,
			})
		}
		return resources, nil
	}
}

// sessionExport exports one chat session. The listing omits history, so the
// full session is fetched first; if that fails the listing data still backs
// the JSON artifact.
func sessionExport(client *abacus.Client, exporter *export.Exporter, cat *catalog.Catalog) batch.ExportFunc {
	return func(ctx context.Context, res export.Resource) export.Result {
		if full, err := client.GetChatSession(ctx, res.ID); err == nil {
			res.Payload = full
			res.History = full.ChatHistory
		}

		result := exporter.Export(ctx, res, client.ExportChatSession)
		recordArtifacts(ctx, cat, "chat_session", result)
		return result
	}
}
