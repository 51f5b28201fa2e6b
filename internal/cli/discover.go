// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// discover.go - Diagnostic walk of the account.
//
// Reports everything exportable without writing artifacts: chat sessions,
// projects, deployments with conversation counts, and agents. Sections fail
// independently; discovery is for finding out what works.

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/aiexport/internal/util"
)

// maxDiscoverRows caps how many rows each section prints.
const maxDiscoverRows = 10

// HandleDiscover walks the account and prints what each listing returned.
func HandleDiscover(args *ArgParser) error {
	_, client, err := loadRuntime(args, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	fmt.Println(TitleStyle.Render("Discovering account resources"))

	// Chat sessions.
	fmt.Println(SectionStyle.Render("Chat sessions"))
	sessions, err := client.ListChatSessions(ctx)
	if err != nil {
		fmt.Printf("  %s %v\n", RenderStatus("fail"), err)
	} else if len(sessions) == 0 {
		fmt.Printf("  %s\n", DimStyle.Render("none"))
	} else {
		fmt.Printf("  %s %d session(s)\n", RenderStatus("ok"), len(sessions))
		for i, s := range sessions {
			if i == maxDiscoverRows {
				fmt.Printf("  %s\n", DimStyle.Render(fmt.Sprintf("... and %d more", len(sessions)-maxDiscoverRows)))
				break
			}
			name := s.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  - %s  %s\n", util.TruncateRunes(name, 50), DimStyle.Render(s.ChatSessionID))
		}
	}

	// Projects, with deployments and agents per project.
	fmt.Println(SectionStyle.Render("Projects"))
	projects, err := client.ListProjects(ctx)
	if err != nil {
		fmt.Printf("  %s %v\n", RenderStatus("fail"), err)
		return nil
	}
	if len(projects) == 0 {
		fmt.Printf("  %s\n", DimStyle.Render("none"))
		return nil
	}
	fmt.Printf("  %s %d project(s)\n", RenderStatus("ok"), len(projects))

	for _, p := range projects {
		fmt.Printf("\n  %s %s\n", HighlightStyle.Render(projectTitle(p)), DimStyle.Render("("+p.UseCase+")"))
		fmt.Printf("    %s%s\n", RenderLabel("ID:", 14), p.ProjectID)

		deployments, err := client.ListDeployments(ctx, p.ProjectID)
		if err != nil {
			fmt.Printf("    %s deployments: %v\n", RenderStatus("warn"), err)
		} else {
			for _, d := range deployments {
				count := "?"
				if convos, err := client.ListDeploymentConversations(ctx, d.DeploymentID); err == nil {
					count = fmt.Sprintf("%d", len(convos))
				}
				fmt.Printf("    deployment %s  %s conversation(s)\n", d.DeploymentID, count)
			}
			if len(deployments) == 0 {
				fmt.Printf("    %s\n", DimStyle.Render("no deployments"))
			}
		}

		agents, err := client.ListAgents(ctx, p.ProjectID)
		if err != nil {
			fmt.Printf("    %s agents: %v\n", RenderStatus("warn"), err)
		} else if len(agents) > 0 {
			for _, a := range agents {
				fmt.Printf("    agent %s  %s\n", a.AgentID, util.TruncateRunes(a.Name, 40))
			}
		}
	}

	return nil
}
