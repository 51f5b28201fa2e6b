// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management: show, path, init.

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/aiexport/internal/config"
)

// HandleConfig shows the effective configuration, prints the config path,
// or writes a starter config file.
func HandleConfig(args *ArgParser) error {
	switch args.Subcommand() {
	case "", "show":
		return configShow()
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "init":
		return configInit()
	default:
		return NewUsageError("unknown config subcommand %q; expected show, path, or init", args.Subcommand())
	}
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Configuration"))

	// Never print the credential itself.
	key := "not set"
	if cfg.APIKey != "" {
		key = "set"
	}
	fmt.Printf("%s%s\n", RenderLabel("API key:"), key)
	fmt.Printf("%s%s\n", RenderLabel("Deployment:"), orDim(cfg.DeploymentID))
	fmt.Printf("%s%s\n", RenderLabel("Output dir:"), cfg.OutputDir)
	fmt.Printf("%s%s\n", RenderLabel("Activity log:"), cfg.ActivityLog)
	fmt.Printf("%s%s\n", RenderLabel("Catalog:"), cfg.CatalogPath)
	fmt.Printf("%s%.1f req/s\n", RenderLabel("Rate limit:"), cfg.RequestsPerSecond)

	if path, err := config.ConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			fmt.Printf("%s%s\n", RenderLabel("Config file:"), path)
		} else {
			fmt.Printf("%s%s\n", RenderLabel("Config file:"), DimStyle.Render(path+" (absent)"))
		}
	}
	return nil
}

func configInit() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("%s config file already exists: %s\n", RenderStatus("warn"), path)
		return nil
	}

	if err := config.Default().SaveTOML(); err != nil {
		return err
	}
	fmt.Printf("%s wrote %s\n", RenderStatus("ok"), path)
	fmt.Println(DimStyle.Render("Set " + config.EnvAPIKey + " in your environment, or add api_key to the file."))
	return nil
}

func orDim(v string) string {
	if v == "" {
		return DimStyle.Render("not set")
	}
	return v
}
