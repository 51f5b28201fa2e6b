// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jeranaias/aiexport/internal/util"
)

// Format identifies the on-disk representation of an artifact.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// Extension returns the file extension for the format, with leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ArtifactName builds the output filename for one resource:
//
//	{sanitize(createdAt)}__{sanitize(displayName)}__{id}{ext}
//
// Missing fields never leak placeholder text into the name: an empty
// createdAt falls back to the current unix timestamp, and an empty
// displayName falls back to "resource_" plus the id. The trailing raw id
// keeps filenames distinct even when sanitization collapses two names.
func ArtifactName(createdAt, displayName, id string, format Format) string {
	stamp := createdAt
	if stamp == "" {
		stamp = strconv.FormatInt(time.Now().Unix(), 10)
	}
	name := displayName
	if name == "" {
		name = "resource_" + id
	}
	return Sanitize(stamp, DefaultMaxNameLen) + "__" + Sanitize(name, DefaultMaxNameLen) + "__" + id + format.Extension()
}

// EnsureDir creates the output directory (and parents) if absent. A failure
// here is fatal to the batch: no output location means no point continuing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// MarshalJSONArtifact serializes a resource payload for the JSON artifact:
// two-space indentation and no HTML escaping, so multi-byte and emoji
// content round-trips as literal UTF-8 text rather than \u escapes.
func MarshalJSONArtifact(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize resource: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSONArtifact serializes v and writes it atomically to path.
func WriteJSONArtifact(path string, v interface{}) error {
	data, err := MarshalJSONArtifact(v)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}
