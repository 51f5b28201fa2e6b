// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Shared wiring for the export commands: configuration
// loading, client construction, catalog recording, and progress output.

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/aiexport/internal/abacus"
	"github.com/jeranaias/aiexport/internal/batch"
	"github.com/jeranaias/aiexport/internal/catalog"
	"github.com/jeranaias/aiexport/internal/config"
	"github.com/jeranaias/aiexport/internal/export"
	"github.com/jeranaias/aiexport/internal/util"
)

// loadRuntime loads configuration, applies command-line overrides, runs the
// fatal pre-network checks, and builds the API client. Every command that
// talks to the platform starts here.
func loadRuntime(args *ArgParser, needDeployment bool) (*config.Config, *abacus.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if v := args.Flag("deployment"); v != "" {
		cfg.DeploymentID = v
	}
	if v := args.Flag("out"); v != "" {
		cfg.OutputDir = v
	}

	if err := cfg.ValidateCredential(); err != nil {
		return nil, nil, err
	}
	if needDeployment {
		if err := cfg.ValidateDeployment(); err != nil {
			return nil, nil, err
		}
	}

	client := abacus.NewClient(cfg.APIKey).WithRateLimit(cfg.RequestsPerSecond)
	return cfg, client, nil
}

// openCatalog opens the export-history catalog. The catalog is best-effort:
// a failure is reported and exports proceed without history recording.
func openCatalog(cfg *config.Config) *catalog.Catalog {
	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		fmt.Printf("%s export history unavailable: %v\n", RenderStatus("warn"), err)
		return nil
	}
	return cat
}

// recordArtifacts writes one catalog row per artifact attempt.
func recordArtifacts(ctx context.Context, cat *catalog.Catalog, resourceType string, result export.Result) {
	if cat == nil {
		return
	}

	jsonStatus := catalog.StatusSuccess
	if result.JSONPath == "" {
		jsonStatus = catalog.StatusFailed
	}
	_ = cat.Add(ctx, catalog.Record{
		ResourceID:   result.ResourceID,
		ResourceType: resourceType,
		Path:         result.JSONPath,
		Format:       string(export.FormatJSON),
		Status:       jsonStatus,
	})

	// The HTML artifact is recorded only when it was attempted; a resource
	// with no history legitimately produces none.
	if result.HTMLPath == "" && result.HTMLErr == nil {
		return
	}
	htmlStatus := catalog.StatusSuccess
	if result.HTMLPath == "" {
		htmlStatus = catalog.StatusFailed
	}
	_ = cat.Add(ctx, catalog.Record{
		ResourceID:   result.ResourceID,
		ResourceType: resourceType,
		Path:         result.HTMLPath,
		Format:       string(export.FormatHTML),
		Status:       htmlStatus,
	})
}

// itemLabel picks the display name for progress lines.
func itemLabel(res export.Resource) string {
	if res.DisplayName != "" {
		return res.DisplayName
	}
	return res.ID
}

// printItemProgress prints one progress line per exported item.
func printItemProgress(index, total int, res export.Resource, result export.Result) {
	status := "ok"
	switch {
	case result.Failed():
		status = "fail"
	case result.Err() != nil:
		status = "warn"
	}
	fmt.Printf("  [%d/%d] %s %s\n", index, total, RenderStatus(status), util.TruncateRunes(itemLabel(res), 60))
	if err := result.Err(); err != nil {
		fmt.Printf("          %s\n", DimStyle.Render(err.Error()))
	}
}

// printRunSummary prints the aggregate outcome of one batch run.
func printRunSummary(result batch.Result, outDir string) {
	fmt.Println()
	fmt.Println(RenderSeparator())
	if result.Found == 0 {
		fmt.Println(DimStyle.Render("No resources found."))
		return
	}

	status := "ok"
	if result.Failed > 0 {
		status = "warn"
	}
	fmt.Printf("%s exported %d of %d (%d failed)\n", RenderStatus(status), result.Exported, result.Found, result.Failed)
	fmt.Printf("%s%s\n", RenderLabel("Output:"), outDir)
}
