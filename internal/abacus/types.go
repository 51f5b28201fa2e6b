// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package abacus

import (
	"encoding/json"
	"strings"
)

// Project use-case tags returned by the platform.
const (
	UseCaseChatLLM = "CHAT_LLM"
	UseCaseAIAgent = "AI_AGENT"
)

// ChatSession is one AI Chat (Data Science Copilot) session.
//
// Only ChatSessionID is guaranteed present; Name and CreatedAt may be empty
// and CreatedAt is a free-form timestamp string that is not guaranteed to
// parse.
type ChatSession struct {
	ChatSessionID string    `json:"chatSessionId"`
	ProjectID     string    `json:"projectId,omitempty"`
	Name          string    `json:"name,omitempty"`
	CreatedAt     string    `json:"createdAt,omitempty"`
	ChatHistory   []Message `json:"chatHistory,omitempty"`
}

// Project is a platform project (CHAT_LLM, AI_AGENT, ...).
type Project struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name,omitempty"`
	UseCase   string `json:"useCase,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Deployment is a deployed model or agent within a project.
type Deployment struct {
	DeploymentID string `json:"deploymentId"`
	ProjectID    string `json:"projectId,omitempty"`
	Name         string `json:"name,omitempty"`
	Status       string `json:"status,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// DeploymentConversation is one conversation against a deployment.
type DeploymentConversation struct {
	DeploymentConversationID string    `json:"deploymentConversationId"`
	DeploymentID             string    `json:"deploymentId,omitempty"`
	Name                     string    `json:"name,omitempty"`
	CreatedAt                string    `json:"createdAt,omitempty"`
	History                  []Message `json:"history,omitempty"`
}

// Agent is an AI agent registered in a project.
type Agent struct {
	AgentID   string `json:"agentId"`
	ProjectID string `json:"projectId,omitempty"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ConversationExport is the platform's native HTML export of a conversation.
type ConversationExport struct {
	DeploymentConversationID string `json:"deploymentConversationId"`
	ConversationExportHTML   string `json:"conversationExportHtml"`
}

// Message is one transcript entry. The platform is loose about the shape of
// the text field: it may be a plain string, a list of fragment objects, or
// something else entirely, so it is kept raw and coerced on demand.
type Message struct {
	Role      string          `json:"role,omitempty"`
	Text      json.RawMessage `json:"text,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// textFragment is one element of a fragment-list text field.
type textFragment struct {
	Text string `json:"text"`
}

// PlainText coerces the message text to a plain string, best effort.
//
// Rules: a string field is returned as-is; a fragment list joins each
// fragment's text field (or the raw fragment when it has none) with
// newlines; any other shape is returned as its raw JSON; a message with no
// text field at all is rendered as the whole message object.
func (m Message) PlainText() string {
	if len(m.Text) == 0 {
		// Last resort: the whole message object.
		raw, err := json.Marshal(m)
		if err != nil {
			return ""
		}
		return string(raw)
	}

	var s string
	if err := json.Unmarshal(m.Text, &s); err == nil {
		return s
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(m.Text, &parts); err == nil {
		lines := make([]string, 0, len(parts))
		for _, part := range parts {
			var frag textFragment
			if err := json.Unmarshal(part, &frag); err == nil && frag.Text != "" {
				lines = append(lines, frag.Text)
				continue
			}
			var ps string
			if err := json.Unmarshal(part, &ps); err == nil {
				lines = append(lines, ps)
				continue
			}
			lines = append(lines, string(part))
		}
		return strings.Join(lines, "\n")
	}

	return string(m.Text)
}
