// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the aiexport command surface.
//
// It holds the argument parser, terminal-aware styling, and the per-command
// handlers that wire the platform client, exporter, batch driver, activity
// log, and export-history catalog together. Handlers return errors; exit
// codes are derived in one place by Run.
package cli
