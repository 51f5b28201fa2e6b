// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import "strings"

// DefaultMaxNameLen is the default length cap for sanitized name segments.
const DefaultMaxNameLen = 80

// Sanitize maps an arbitrary string to a filesystem-safe path segment.
//
// The replacement order is fixed so output is deterministic: "/" becomes
// "_", " " becomes "_", ":" becomes "-", parentheses are stripped, and the
// result is prefix-truncated to maxLen characters (not extension-aware).
// A maxLen of zero or less uses DefaultMaxNameLen. The function is pure and
// idempotent: sanitizing an already-sanitized string is a no-op.
//
// Known gaps, kept deliberately for filename compatibility with earlier
// export runs: backslashes, control characters, newlines, semicolons and
// dots all pass through (so ".." survives), no Unicode normalization is
// applied, Windows reserved device names are not rejected, and truncation
// can collapse two distinct inputs to the same output. Callers that need
// collision resistance must append a unique id, as ArtifactName does.
func Sanitize(name string, maxLen int) string {
	return sanitize(name, maxLen, true)
}

// SanitizeKeepParens is Sanitize without parenthesis stripping. Earlier
// exports used this lenient form; new artifacts use the strict one.
func SanitizeKeepParens(name string, maxLen int) string {
	return sanitize(name, maxLen, false)
}

func sanitize(name string, maxLen int, stripParens bool) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLen
	}

	s := strings.ReplaceAll(name, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "-")
	if stripParens {
		s = strings.ReplaceAll(s, "(", "")
		s = strings.ReplaceAll(s, ")", "")
	}

	runes := []rune(s)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return string(runes)
}
