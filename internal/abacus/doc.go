// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package abacus provides a client for the Abacus.AI REST API.
//
// The client covers the small slice of the platform surface that aiexport
// needs: enumerating chat sessions, projects, deployments, deployment
// conversations and agents, exporting transcripts, and driving document
// uploads into a deployment conversation.
//
// # Key Types
//
//   - Client: HTTP client with retry, backoff, and rate limiting
//   - ChatSession, Project, Deployment, DeploymentConversation, Agent:
//     remote resource handles
//   - Message: one transcript entry with best-effort text coercion
//
// All operations take a context.Context and return explicit errors. Remote
// failures are mapped to typed sentinel errors (ErrAuthFailed, ErrNotFound,
// ErrRateLimited, ...) so callers can distinguish configuration problems
// from transient platform errors.
package abacus
