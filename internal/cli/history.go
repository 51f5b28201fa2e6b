// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Show the local export-history catalog.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/aiexport/internal/catalog"
	"github.com/jeranaias/aiexport/internal/config"
	"github.com/jeranaias/aiexport/internal/util"
)

// HandleHistory lists recent catalog rows. Works offline; no credential
// needed.
func HandleHistory(args *ArgParser) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	limit := args.FlagIntOrDefault("limit", 20)
	records, err := cat.Recent(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Export history"))
	if len(records) == 0 {
		fmt.Println(DimStyle.Render("No exports recorded yet."))
		return nil
	}

	for _, rec := range records {
		stamp := ""
		if !rec.CreatedAt.IsZero() {
			stamp = rec.CreatedAt.Local().Format(time.DateTime)
		}
		path := rec.Path
		if path == "" {
			path = "(no artifact)"
		}
		fmt.Printf("  %s %s  %-24s %s\n",
			RenderStatus(rec.Status),
			DimStyle.Render(stamp),
			rec.ResourceType+"/"+rec.Format,
			util.TruncateRunes(path, 60))
	}

	ok, _ := cat.CountByStatus(ctx, catalog.StatusSuccess)
	failed, _ := cat.CountByStatus(ctx, catalog.StatusFailed)
	fmt.Println()
	fmt.Printf("%s%d succeeded, %d failed (all time)\n", RenderLabel("Totals:"), ok, failed)
	return nil
}
