// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aiexport/internal/abacus"
)

func TestArtifactName(t *testing.T) {
	t.Run("all fields present", func(t *testing.T) {
		got := ArtifactName("2024-01-02 10:30:00", "My Chat", "abc123", FormatHTML)
		assert.Equal(t, "2024-01-02_10-30-00__My_Chat__abc123.html", got)
	})

	t.Run("missing name falls back to resource id", func(t *testing.T) {
		got := ArtifactName("2024-01-02", "", "abc123", FormatJSON)
		assert.Contains(t, got, "abc123")
		assert.Contains(t, got, "resource_abc123")
		assert.NotContains(t, got, "None")
		assert.NotContains(t, got, "<nil>")
	})

	t.Run("missing timestamp uses a numeric fallback", func(t *testing.T) {
		got := ArtifactName("", "chat", "id1", FormatJSON)
		parts := strings.SplitN(got, "__", 2)
		require.Len(t, parts, 2)
		assert.Regexp(t, `^\d+$`, parts[0])
	})
}

func TestWriteJSONArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emoji.json")

	payload := map[string]interface{}{
		"emoji": "🌍🚀",
		"html":  "<b>&amp;</b>",
		"name":  "日本語",
	}
	require.NoError(t, WriteJSONArtifact(path, payload))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Non-ASCII text is written literally, not as \u escape sequences,
	// and HTML characters are not escaped either.
	assert.Contains(t, string(raw), "🌍🚀")
	assert.Contains(t, string(raw), "日本語")
	assert.Contains(t, string(raw), "<b>&amp;</b>")
	assert.NotContains(t, string(raw), `\u`)

	var round map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &round))
	assert.Equal(t, payload["emoji"], round["emoji"])
	assert.Equal(t, payload["html"], round["html"])
}

func TestExportNativeSuccess(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{OutputDir: dir})

	res := Resource{
		ID:          "conv1",
		DisplayName: "native chat",
		CreatedAt:   "2024-03-01",
		Payload:     map[string]string{"id": "conv1"},
	}
	native := func(ctx context.Context, id string) ([]byte, error) {
		return []byte("<html><body>native</body></html>"), nil
	}

	result := e.Export(context.Background(), res, native)
	require.NoError(t, result.JSONErr)
	require.NoError(t, result.HTMLErr)
	assert.False(t, result.Failed())

	html, err := os.ReadFile(result.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>native</body></html>", string(html))
}

func TestExportFallbackOnNativeFailure(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{OutputDir: dir})

	res := Resource{
		ID:          "x1",
		DisplayName: "failing export",
		CreatedAt:   "2024-03-01",
		Payload:     map[string]string{"id": "x1"},
		History: []abacus.Message{
			{Role: "user", Text: json.RawMessage(`"hi"`)},
			{Role: "assistant", Text: json.RawMessage(`"yo"`)},
		},
	}
	native := func(ctx context.Context, id string) ([]byte, error) {
		return nil, errors.New("export endpoint unavailable")
	}

	result := e.Export(context.Background(), res, native)
	require.NoError(t, result.HTMLErr, "fallback should still produce HTML")
	require.NotEmpty(t, result.HTMLPath)

	html, err := os.ReadFile(result.HTMLPath)
	require.NoError(t, err)
	body := string(html)

	// Both roles upper-cased, both bodies present, in order.
	userIdx := strings.Index(body, "USER")
	asstIdx := strings.Index(body, "ASSISTANT")
	hiIdx := strings.Index(body, "hi")
	yoIdx := strings.Index(body, "yo")
	assert.True(t, userIdx >= 0 && asstIdx >= 0, "missing role headings: %s", body)
	assert.True(t, userIdx < asstIdx, "roles out of order")
	assert.True(t, hiIdx >= 0 && yoIdx >= 0 && hiIdx < yoIdx, "message bodies missing or out of order")
	assert.Contains(t, body, "<h1>failing export</h1>")
	assert.Contains(t, body, "<hr/>")
	assert.Contains(t, body, "<pre>")
}

func TestExportNoHistoryProducesNoHTML(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{OutputDir: dir})

	res := Resource{
		ID:      "empty1",
		Payload: map[string]string{"id": "empty1"},
	}
	native := func(ctx context.Context, id string) ([]byte, error) {
		return nil, errors.New("boom")
	}

	result := e.Export(context.Background(), res, native)
	assert.Empty(t, result.HTMLPath)
	assert.ErrorIs(t, result.HTMLErr, ErrNoHistory)

	// JSON artifact still counts as partial success.
	assert.NotEmpty(t, result.JSONPath)
	assert.False(t, result.Failed())
}

func TestExportEmptyNativeFallsBack(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{OutputDir: dir})

	res := Resource{
		ID:      "e1",
		History: []abacus.Message{{Role: "user", Text: json.RawMessage(`"hello"`)}},
	}
	native := func(ctx context.Context, id string) ([]byte, error) {
		return []byte{}, nil
	}

	result := e.Export(context.Background(), res, native)
	require.NotEmpty(t, result.HTMLPath)
	html, _ := os.ReadFile(result.HTMLPath)
	assert.Contains(t, string(html), "USER")
}

func TestExportHTMLEscapesMessageText(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{OutputDir: dir})

	res := Resource{
		ID:      "esc1",
		History: []abacus.Message{{Role: "user", Text: json.RawMessage(`"<script>alert(1)</script>"`)}},
	}

	result := e.Export(context.Background(), res, nil)
	require.NotEmpty(t, result.HTMLPath)
	html, _ := os.ReadFile(result.HTMLPath)
	assert.NotContains(t, string(html), "<script>")
	assert.Contains(t, string(html), "&lt;script&gt;")
}
