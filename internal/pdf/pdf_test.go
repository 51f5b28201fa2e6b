// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/aiexport/internal/abacus"
	"github.com/jeranaias/aiexport/internal/activity"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pdf"))
	writeFile(t, filepath.Join(dir, "a.PDF"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "sub", "c.pdf"))

	t.Run("non-recursive", func(t *testing.T) {
		pdfs, err := FindPDFs(dir, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(pdfs) != 2 {
			t.Fatalf("expected 2 pdfs, got %v", pdfs)
		}
		// Sorted output.
		if filepath.Base(pdfs[0]) != "a.PDF" || filepath.Base(pdfs[1]) != "b.pdf" {
			t.Errorf("unexpected order: %v", pdfs)
		}
	})

	t.Run("recursive", func(t *testing.T) {
		pdfs, err := FindPDFs(dir, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(pdfs) != 3 {
			t.Fatalf("expected 3 pdfs, got %v", pdfs)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := FindPDFs(filepath.Join(dir, "nope"), false); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

// fakePlatform records calls and injects failures per file name.
type fakePlatform struct {
	uploads     []string
	messages    []string
	failUpload  map[string]bool
	failPrompts bool
}

func (f *fakePlatform) CreateDeploymentConversation(ctx context.Context, deploymentID, name string) (*abacus.DeploymentConversation, error) {
	return &abacus.DeploymentConversation{DeploymentConversationID: "conv-" + name}, nil
}

func (f *fakePlatform) CreateConversationMessage(ctx context.Context, deploymentID, conversationID, text string) (*abacus.Message, error) {
	if f.failPrompts {
		return nil, errors.New("model unavailable")
	}
	f.messages = append(f.messages, text)
	return &abacus.Message{Role: "assistant"}, nil
}

func (f *fakePlatform) UploadDocument(ctx context.Context, deploymentID, conversationID, fileName string, blob []byte) error {
	if f.failUpload[fileName] {
		return errors.New("upload rejected")
	}
	f.uploads = append(f.uploads, fileName)
	return nil
}

func TestProcessFileRunsAllPrompts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	writeFile(t, path)

	platform := &fakePlatform{}
	log := activity.NewLog(filepath.Join(dir, "log.json"))
	p := &Processor{Platform: platform, DeploymentID: "d1", Log: log}

	result := p.ProcessFile(context.Background(), path)
	if !result.Success() {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(platform.messages) != len(AnalysisPrompts) {
		t.Errorf("expected %d prompts, got %d", len(AnalysisPrompts), len(platform.messages))
	}
	if platform.messages[0] != "Summarize this paper." {
		t.Errorf("unexpected first prompt: %q", platform.messages[0])
	}

	// One upload entry plus one entry per prompt.
	entries, err := log.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1+len(AnalysisPrompts) {
		t.Errorf("expected %d log entries, got %d", 1+len(AnalysisPrompts), len(entries))
	}
}

func TestProcessFileUploadFailureSkipsPrompts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pdf")
	writeFile(t, path)

	platform := &fakePlatform{failUpload: map[string]bool{"bad.pdf": true}}
	p := &Processor{Platform: platform, DeploymentID: "d1"}

	result := p.ProcessFile(context.Background(), path)
	if result.Success() {
		t.Fatal("expected failure")
	}
	if result.UploadErr == nil {
		t.Error("expected upload error")
	}
	if len(platform.messages) != 0 {
		t.Error("prompts must not run after a failed upload")
	}
}

func TestProcessAllContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	bad := filepath.Join(dir, "bad.pdf")
	writeFile(t, good)
	writeFile(t, bad)

	platform := &fakePlatform{failUpload: map[string]bool{"bad.pdf": true}}
	p := &Processor{Platform: platform, DeploymentID: "d1"}

	successful, failed := p.ProcessAll(context.Background(), []string{bad, good})
	if successful != 1 || failed != 1 {
		t.Errorf("expected 1/1, got %d/%d", successful, failed)
	}
	if len(platform.uploads) != 1 || platform.uploads[0] != "good.pdf" {
		t.Errorf("expected good.pdf uploaded after bad.pdf failed, got %v", platform.uploads)
	}
}

func TestProcessFilePromptFailureReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.pdf")
	writeFile(t, path)

	platform := &fakePlatform{failPrompts: true}
	p := &Processor{Platform: platform, DeploymentID: "d1"}

	result := p.ProcessFile(context.Background(), path)
	if result.Success() {
		t.Fatal("expected prompt failures")
	}
	if result.UploadErr != nil {
		t.Errorf("upload should have succeeded: %v", result.UploadErr)
	}
	if len(result.PromptErrs) != len(AnalysisPrompts) {
		t.Errorf("expected %d prompt errors, got %d", len(AnalysisPrompts), len(result.PromptErrs))
	}
}
