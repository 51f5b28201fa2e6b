// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search.go - Find a chat session or deployment conversation by id or name.
//
// The platform has no search endpoint, so this tries the term as a direct
// id first, then scans listings case-insensitively. With --deployment the
// scan also fetches each conversation and searches its message text.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/aiexport/internal/abacus"
	"github.com/jeranaias/aiexport/internal/util"
)

// HandleSearch searches chat sessions and deployment conversations.
func HandleSearch(args *ArgParser) error {
	term := strings.Join(args.PositionalFrom(0), " ")
	if term == "" {
		return NewUsageError("usage: aiexport search <id-or-name> [--deployment ID]")
	}

	cfg, client, err := loadRuntime(args, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	fmt.Println(TitleStyle.Render("Searching for: " + util.TruncateRunes(term, 50)))

	found := 0
	needle := strings.ToLower(term)

	// Direct id lookups first: cheapest when the term is an exact id.
	if session, err := client.GetChatSession(ctx, term); err == nil && session.ChatSessionID != "" {
		found++
		printSearchHit("chat session", session.Name, session.ChatSessionID, session.CreatedAt)
	}
	if convo, err := client.GetDeploymentConversation(ctx, term); err == nil && convo.DeploymentConversationID != "" {
		found++
		printSearchHit("conversation", convo.Name, convo.DeploymentConversationID, convo.CreatedAt)
	}

	// Scan chat session listings.
	if sessions, err := client.ListChatSessions(ctx); err != nil {
		fmt.Printf("  %s chat sessions: %v\n", RenderStatus("warn"), err)
	} else {
		for _, s := range sessions {
			if matches(needle, s.ChatSessionID, s.Name) {
				found++
				printSearchHit("chat session", s.Name, s.ChatSessionID, s.CreatedAt)
			}
		}
	}

	// Scan deployment conversations: one deployment when scoped, every
	// deployment of every project otherwise.
	deployments, err := searchScope(ctx, client, cfg.DeploymentID)
	if err != nil {
		fmt.Printf("  %s deployments: %v\n", RenderStatus("warn"), err)
	}
	scoped := cfg.DeploymentID != ""
	for _, d := range deployments {
		convos, err := client.ListDeploymentConversations(ctx, d.DeploymentID)
		if err != nil {
			fmt.Printf("  %s deployment %s: %v\n", RenderStatus("warn"), d.DeploymentID, err)
			continue
		}
		for _, convo := range convos {
			if matches(needle, convo.DeploymentConversationID, convo.Name) {
				found++
				printSearchHit("conversation", convo.Name, convo.DeploymentConversationID, convo.CreatedAt)
				continue
			}
			// Message-text search is fetch-per-conversation; only do it
			// when the search is scoped to one deployment.
			if scoped {
				if full, err := client.GetDeploymentConversation(ctx, convo.DeploymentConversationID); err == nil {
					for _, msg := range full.History {
						if strings.Contains(strings.ToLower(msg.PlainText()), needle) {
							found++
							printSearchHit("conversation (message text)", convo.Name, convo.DeploymentConversationID, convo.CreatedAt)
							break
						}
					}
				}
			}
		}
	}

	fmt.Println()
	if found == 0 {
		fmt.Println(DimStyle.Render("No matches found."))
	} else {
		fmt.Printf("%s %d match(es)\n", RenderStatus("ok"), found)
	}
	return nil
}

// searchScope resolves which deployments to scan.
func searchScope(ctx context.Context, client *abacus.Client, deploymentID string) ([]abacus.Deployment, error) {
	if deploymentID != "" {
		return []abacus.Deployment{{DeploymentID: deploymentID}}, nil
	}
	return client.ListDeployments(ctx, "")
}

func matches(needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func printSearchHit(kind, name, id, createdAt string) {
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("  %s %s: %s\n", HighlightStyle.Render("MATCH"), kind, util.TruncateRunes(name, 50))
	fmt.Printf("    %s%s\n", RenderLabel("ID:", 12), id)
	if createdAt != "" {
		fmt.Printf("    %s%s\n", RenderLabel("Created:", 12), createdAt)
	}
}
