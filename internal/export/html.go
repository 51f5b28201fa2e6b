// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/aiexport/internal/abacus"
)

// RenderFallbackHTML synthesizes a minimal transcript page from the raw
// message history of a resource. It is used whenever the platform's native
// export fails or returns an unusable shape.
//
// Layout: an h1 with the display name, an em metadata line with id and
// creation time, then one block per message showing the upper-cased speaker
// role and the message text in a preformatted region, blocks separated by
// horizontal rules.
func RenderFallbackHTML(displayName, id, createdAt string, history []abacus.Message) string {
	title := displayName
	if title == "" {
		title = id
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	b.WriteString("</head>\n<body>\n")

	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(title)))

	meta := "ID: " + id
	if createdAt != "" {
		meta += " | Created: " + createdAt
	}
	b.WriteString(fmt.Sprintf("<p><em>%s</em></p>\n", html.EscapeString(meta)))

	for _, msg := range history {
		role := strings.ToUpper(strings.TrimSpace(msg.Role))
		if role == "" {
			role = "UNKNOWN"
		}
		b.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(role)))
		b.WriteString(fmt.Sprintf("<pre>%s</pre>\n", html.EscapeString(msg.PlainText())))
		b.WriteString("<hr/>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
