// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package abacus

import (
	"context"
	"net/url"
)

// =============================================================================
// CHAT SESSIONS
// =============================================================================

// ListChatSessions returns all AI Chat sessions visible to the API key.
// An empty slice with a nil error means the account simply has none.
func (c *Client) ListChatSessions(ctx context.Context) ([]ChatSession, error) {
	var sessions []ChatSession
	if err := c.get(ctx, "listChatSessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetChatSession fetches one chat session including its full history.
func (c *Client) GetChatSession(ctx context.Context, chatSessionID string) (*ChatSession, error) {
	params := url.Values{"chatSessionId": {chatSessionID}}
	var session ChatSession
	if err := c.get(ctx, "getChatSession", params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ExportChatSession returns the platform's native export of a chat session
// as raw bytes. The content is typically HTML but the platform does not
// commit to a format, so callers decode it leniently.
func (c *Client) ExportChatSession(ctx context.Context, chatSessionID string) ([]byte, error) {
	params := url.Values{"chatSessionId": {chatSessionID}}
	return c.raw(ctx, "exportChatSession", params)
}

// =============================================================================
// PROJECTS & DEPLOYMENTS
// =============================================================================

// ListProjects returns all projects in the organization.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "listProjects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// DescribeProject fetches full details for one project.
func (c *Client) DescribeProject(ctx context.Context, projectID string) (*Project, error) {
	params := url.Values{"projectId": {projectID}}
	var project Project
	if err := c.get(ctx, "describeProject", params, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListDeployments returns the deployments of a project. An empty projectID
// lists deployments across all projects.
func (c *Client) ListDeployments(ctx context.Context, projectID string) ([]Deployment, error) {
	params := url.Values{}
	if projectID != "" {
		params.Set("projectId", projectID)
	}
	var deployments []Deployment
	if err := c.get(ctx, "listDeployments", params, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

// ListAgents returns the agents of a project.
func (c *Client) ListAgents(ctx context.Context, projectID string) ([]Agent, error) {
	params := url.Values{}
	if projectID != "" {
		params.Set("projectId", projectID)
	}
	var agents []Agent
	if err := c.get(ctx, "listAgents", params, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// =============================================================================
// DEPLOYMENT CONVERSATIONS
// =============================================================================

// ListDeploymentConversations returns all conversations for a deployment.
func (c *Client) ListDeploymentConversations(ctx context.Context, deploymentID string) ([]DeploymentConversation, error) {
	params := url.Values{"deploymentId": {deploymentID}}
	var convos []DeploymentConversation
	if err := c.get(ctx, "listDeploymentConversations", params, &convos); err != nil {
		return nil, err
	}
	return convos, nil
}

// GetDeploymentConversation fetches one conversation with its history.
func (c *Client) GetDeploymentConversation(ctx context.Context, conversationID string) (*DeploymentConversation, error) {
	params := url.Values{"deploymentConversationId": {conversationID}}
	var convo DeploymentConversation
	if err := c.get(ctx, "getDeploymentConversation", params, &convo); err != nil {
		return nil, err
	}
	return &convo, nil
}

// ExportDeploymentConversation runs the platform's native HTML export for a
// conversation.
func (c *Client) ExportDeploymentConversation(ctx context.Context, conversationID string) (*ConversationExport, error) {
	params := url.Values{"deploymentConversationId": {conversationID}}
	var export ConversationExport
	if err := c.get(ctx, "exportDeploymentConversation", params, &export); err != nil {
		return nil, err
	}
	return &export, nil
}

// CreateDeploymentConversation starts a new conversation on a deployment.
func (c *Client) CreateDeploymentConversation(ctx context.Context, deploymentID, name string) (*DeploymentConversation, error) {
	payload := map[string]string{
		"deploymentId": deploymentID,
		"name":         name,
	}
	var convo DeploymentConversation
	if err := c.post(ctx, "createDeploymentConversation", payload, &convo); err != nil {
		return nil, err
	}
	return &convo, nil
}

// CreateConversationMessage sends a message into an existing conversation
// and returns the assistant's reply as a message.
func (c *Client) CreateConversationMessage(ctx context.Context, deploymentID, conversationID, text string) (*Message, error) {
	payload := map[string]string{
		"deploymentId":             deploymentID,
		"deploymentConversationId": conversationID,
		"message":                  text,
	}
	var reply Message
	if err := c.post(ctx, "createConversationMessage", payload, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// UploadDocument uploads a binary document (e.g. a PDF) into a deployment
// conversation. The blob is passed through opaquely; no local parsing.
func (c *Client) UploadDocument(ctx context.Context, deploymentID, conversationID, fileName string, blob []byte) error {
	fields := map[string]string{
		"deploymentId":             deploymentID,
		"deploymentConversationId": conversationID,
	}
	return c.postMultipart(ctx, "uploadDocument", fields, "file", fileName, blob, nil)
}
