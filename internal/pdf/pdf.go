// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pdf implements the batch PDF upload and prompt-processing
// workflow.
//
// PDFs are treated as opaque binary blobs: each file is uploaded into a
// fresh deployment conversation and then run through a fixed sequence of
// analysis prompts. No local text extraction happens. Per-file failures are
// logged and the batch continues.
package pdf

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/aiexport/internal/abacus"
	"github.com/jeranaias/aiexport/internal/activity"
)

// Prompt is one analysis step applied to an uploaded document.
type Prompt struct {
	Key  string
	Text string
}

// AnalysisPrompts is the fixed prompt sequence run against every PDF.
var AnalysisPrompts = []Prompt{
	{Key: "summarize", Text: "Summarize this paper."},
	{Key: "symbolic_logic", Text: "Refactor the paper's core insights using symbolic logic."},
	{Key: "cpp_examples", Text: "Refactor the paper's core insights using C++ code examples."},
}

// FindPDFs returns the sorted list of PDF files under dir. With recursive
// set, subdirectories are walked too.
func FindPDFs(dir string, recursive bool) ([]string, error) {
	var pdfs []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(path) {
				pdfs = append(pdfs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && isPDF(e.Name()) {
				pdfs = append(pdfs, filepath.Join(dir, e.Name()))
			}
		}
	}

	sort.Strings(pdfs)
	return pdfs, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Platform is the slice of the API the processor needs. *abacus.Client
// satisfies it.
type Platform interface {
	CreateDeploymentConversation(ctx context.Context, deploymentID, name string) (*abacus.DeploymentConversation, error)
	CreateConversationMessage(ctx context.Context, deploymentID, conversationID, text string) (*abacus.Message, error)
	UploadDocument(ctx context.Context, deploymentID, conversationID, fileName string, blob []byte) error
}

// FileResult reports the outcome for one PDF.
type FileResult struct {
	Path           string
	ConversationID string
	UploadErr      error
	// PromptErrs maps prompt key to failure; successful prompts are absent.
	PromptErrs map[string]error
}

// Success reports whether the upload and every prompt succeeded.
func (r FileResult) Success() bool {
	return r.UploadErr == nil && len(r.PromptErrs) == 0
}

// Processor uploads PDFs and runs the analysis prompts.
type Processor struct {
	Platform     Platform
	DeploymentID string
	// Log, when set, receives one entry per upload and per prompt.
	Log *activity.Log
	// Printf, when set, receives progress lines. Nil discards them.
	Printf func(format string, args ...interface{})
}

func (p *Processor) printf(format string, args ...interface{}) {
	if p.Printf != nil {
		p.Printf(format, args...)
	}
}

func (p *Processor) record(resourceID, operation string, err error) {
	if p.Log == nil {
		return
	}
	if logErr := p.Log.Record(resourceID, operation, err); logErr != nil {
		p.printf("warning: could not write activity log: %v", logErr)
	}
}

// ProcessFile uploads one PDF into a fresh conversation and runs the
// analysis prompts. All failures are reported on the result, never
// returned, so the caller's batch loop keeps going.
func (p *Processor) ProcessFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path, PromptErrs: map[string]error{}}
	name := filepath.Base(path)

	blob, err := os.ReadFile(path)
	if err != nil {
		result.UploadErr = fmt.Errorf("failed to read %s: %w", path, err)
		p.record(path, "upload", result.UploadErr)
		return result
	}

	convoName := fmt.Sprintf("pdf-%s-%s", name, uuid.NewString()[:8])
	convo, err := p.Platform.CreateDeploymentConversation(ctx, p.DeploymentID, convoName)
	if err != nil {
		result.UploadErr = fmt.Errorf("failed to create conversation: %w", err)
		p.record(path, "upload", result.UploadErr)
		return result
	}
	result.ConversationID = convo.DeploymentConversationID

	if err := p.Platform.UploadDocument(ctx, p.DeploymentID, convo.DeploymentConversationID, name, blob); err != nil {
		result.UploadErr = fmt.Errorf("upload failed: %w", err)
		p.record(path, "upload", result.UploadErr)
		return result
	}
	p.record(path, "upload", nil)

	for _, prompt := range AnalysisPrompts {
		p.printf("  prompt: %s", prompt.Key)
		_, err := p.Platform.CreateConversationMessage(ctx, p.DeploymentID, convo.DeploymentConversationID, prompt.Text)
		if err != nil {
			result.PromptErrs[prompt.Key] = err
		}
		p.record(path, "prompt:"+prompt.Key, err)
	}

	return result
}

// ProcessAll runs every file through ProcessFile and tallies the outcome.
func (p *Processor) ProcessAll(ctx context.Context, paths []string) (successful, failed int) {
	for i, path := range paths {
		p.printf("[%d/%d] processing %s", i+1, len(paths), filepath.Base(path))
		result := p.ProcessFile(ctx, path)
		if result.Success() {
			successful++
		} else {
			failed++
		}
	}
	return successful, failed
}
