// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/jeranaias/aiexport/internal/abacus"
	"github.com/jeranaias/aiexport/internal/util"
)

// ErrNoHistory indicates a resource had no native export and no message
// history to synthesize fallback HTML from. The JSON artifact, if written,
// still counts as partial success.
var ErrNoHistory = errors.New("no native export and no message history")

// Resource is the exporter's view of one remote object: the identity fields
// used for the filename plus the full payload and transcript.
type Resource struct {
	ID          string
	DisplayName string
	CreatedAt   string
	// Payload is the full known representation, serialized verbatim into
	// the JSON artifact.
	Payload interface{}
	// History backs the fallback HTML render when the native export fails.
	History []abacus.Message
}

// NativeExportFunc invokes the platform's native export operation for one
// resource and returns the artifact bytes. May be nil when a resource type
// has no native export.
type NativeExportFunc func(ctx context.Context, id string) ([]byte, error)

// Options configures an Exporter.
type Options struct {
	// OutputDir is the directory artifacts are written to.
	OutputDir string
}

// DefaultOptions returns sensible exporter defaults.
func DefaultOptions() Options {
	return Options{OutputDir: "exports"}
}

// Result reports what happened to one resource. Errors are carried as
// values: the exporter never lets a per-resource failure escape to abort
// a batch.
type Result struct {
	ResourceID string
	JSONPath   string // empty when the JSON artifact failed
	HTMLPath   string // empty when no HTML artifact was produced
	JSONErr    error
	HTMLErr    error
}

// Failed reports whether the resource produced no artifact at all.
// A resource with only one of the two artifacts is a partial success.
func (r Result) Failed() bool {
	return r.JSONPath == "" && r.HTMLPath == ""
}

// Err returns the first recorded error, for logging.
func (r Result) Err() error {
	if r.JSONErr != nil {
		return r.JSONErr
	}
	return r.HTMLErr
}

// Exporter persists resources as JSON and HTML artifacts with fallback
// rendering.
type Exporter struct {
	opts Options
}

// New creates an Exporter. The output directory is created lazily on the
// first write; callers that want directory failures to be fatal up front
// should call EnsureDir first.
func New(opts Options) *Exporter {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOptions().OutputDir
	}
	return &Exporter{opts: opts}
}

// OutputDir returns the directory artifacts are written to.
func (e *Exporter) OutputDir() string {
	return e.opts.OutputDir
}

// Export writes the artifacts for one resource.
//
// Step 1 writes the JSON artifact; a failure there is recorded and does not
// prevent step 2. Step 2 attempts the native export; on error, empty
// content, or an unusable shape it falls back to synthesizing HTML from the
// resource's history. A resource with neither native content nor history
// produces no HTML artifact and records ErrNoHistory.
func (e *Exporter) Export(ctx context.Context, res Resource, native NativeExportFunc) Result {
	result := Result{ResourceID: res.ID}

	jsonPath := filepath.Join(e.opts.OutputDir, ArtifactName(res.CreatedAt, res.DisplayName, res.ID, FormatJSON))
	if err := WriteJSONArtifact(jsonPath, res.Payload); err != nil {
		result.JSONErr = err
	} else {
		result.JSONPath = jsonPath
	}

	htmlPath := filepath.Join(e.opts.OutputDir, ArtifactName(res.CreatedAt, res.DisplayName, res.ID, FormatHTML))
	content, err := e.renderHTML(ctx, res, native)
	if err != nil {
		result.HTMLErr = err
		return result
	}
	if err := util.AtomicWriteFile(htmlPath, []byte(content), 0644); err != nil {
		result.HTMLErr = err
		return result
	}
	result.HTMLPath = htmlPath
	return result
}

// renderHTML produces the HTML artifact content, native first, fallback
// second.
func (e *Exporter) renderHTML(ctx context.Context, res Resource, native NativeExportFunc) (string, error) {
	if native != nil {
		data, err := native(ctx, res.ID)
		if err == nil && len(data) > 0 {
			// The platform does not commit to valid UTF-8; replace
			// undecodable bytes rather than failing the artifact.
			return strings.ToValidUTF8(string(data), "�"), nil
		}
	}

	if len(res.History) == 0 {
		return "", ErrNoHistory
	}
	return RenderFallbackHTML(res.DisplayName, res.ID, res.CreatedAt, res.History), nil
}
