// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export turns remote conversation resources into local artifacts.
//
// It provides the three pieces every export command shares:
//
//   - Sanitize: maps a free-form display string to a safe, bounded-length
//     filesystem path segment
//   - ArtifactName: builds the {timestamp}__{name}__{id} filename pattern
//     that keeps directory listings chronological and collision-resistant
//   - Exporter: writes a JSON artifact and an HTML artifact per resource,
//     synthesizing fallback HTML from the raw message history when the
//     platform's native export fails or returns an unusable shape
//
// Per-resource failures are reported as values on the Result, never as
// errors that would abort a batch.
package export
