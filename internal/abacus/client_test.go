// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package abacus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient("test-key").
		WithBaseURL(srv.URL).
		WithRateLimit(1000)
	return client, srv
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.ListChatSessions(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestListChatSessions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listChatSessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("apiKey"); got != "test-key" {
			t.Errorf("expected apiKey header, got %q", got)
		}
		w.Write([]byte(`{"success":true,"result":[
			{"chatSessionId":"cs1","name":"First","createdAt":"2024-01-01T00:00:00Z"},
			{"chatSessionId":"cs2"}
		]}`))
	})

	sessions, err := client.ListChatSessions(context.Background())
	if err != nil {
		t.Fatalf("ListChatSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ChatSessionID != "cs1" || sessions[0].Name != "First" {
		t.Errorf("unexpected first session: %+v", sessions[0])
	}
	if sessions[1].Name != "" {
		t.Errorf("expected empty name on second session, got %q", sessions[1].Name)
	}
}

func TestEmptyListIsSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"result":[]}`))
	})

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("expected success on empty result, got %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected 0 projects, got %d", len(projects))
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, ErrAuthFailed},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited maps after retries", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"success":false,"error":"nope","errorType":"TestError"}`))
			})

			_, err := client.DescribeProject(context.Background(), "p1")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected errors.Is(err, %v), got %v", tt.want, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Errorf("expected *APIError, got %T", err)
			}
		})
	}
}

func TestEnvelopeFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"session does not exist","errorType":"DataNotFoundError"}`))
	})

	_, err := client.GetChatSession(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Type != "DataNotFoundError" {
		t.Errorf("expected error type from envelope, got %q", apiErr.Type)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success":true,"result":[]}`))
	})
	client.WithMaxRetries(2)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.ListProjects(ctx); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":"bad key"}`))
	})

	_, err := client.ListProjects(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 call, got %d", got)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1 * time.Second},
		{3, 2 * time.Second},
		{10, retryMaxDelay},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt); got != tt.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestMessagePlainText(t *testing.T) {
	tests := []struct {
		name string
		text string // raw JSON for the text field; empty means absent
		want string
	}{
		{"plain string", `"hello"`, "hello"},
		{"fragment list", `[{"text":"line one"},{"text":"line two"}]`, "line one\nline two"},
		{"string list", `["a","b"]`, "a\nb"},
		{"mixed fragments", `[{"text":"frag"},{"other":1}]`, "frag\n{\"other\":1}"},
		{"number", `42`, "42"},
		{"object", `{"k":"v"}`, `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Message{Role: "user", Text: json.RawMessage(tt.text)}
			if got := msg.PlainText(); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("missing text falls back to whole message", func(t *testing.T) {
		msg := Message{Role: "assistant"}
		got := msg.PlainText()
		if got == "" {
			t.Fatal("expected non-empty fallback")
		}
		var round map[string]interface{}
		if err := json.Unmarshal([]byte(got), &round); err != nil {
			t.Fatalf("fallback is not valid JSON: %v", err)
		}
		if round["role"] != "assistant" {
			t.Errorf("expected role in fallback, got %v", round)
		}
	})
}
