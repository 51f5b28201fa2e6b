// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package activity maintains the cumulative JSON processing log.
//
// The log is a single JSON file holding a list of per-resource entries plus
// a last-updated timestamp. Updates are full read-modify-write cycles; a
// mutex serializes them so concurrent callers cannot lose entries, and the
// rewrite itself is atomic.
package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/aiexport/internal/util"
)

// Entry statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Entry is one append-only record of a processing operation.
type Entry struct {
	Timestamp  string `json:"timestamp"`
	ResourceID string `json:"resource_id"`
	Operation  string `json:"operation"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// logFile is the on-disk shape of the activity log.
type logFile struct {
	ProcessedFiles []Entry `json:"processed_files"`
	LastUpdated    string  `json:"last_updated"`
}

// Log records processing entries in a JSON file.
type Log struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewLog creates a log writer for the given path. The file is created on
// the first append.
func NewLog(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Append adds an entry to the log, stamping it with the current time if the
// entry has none.
func (l *Log) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.read()
	if err != nil {
		return err
	}

	if entry.Timestamp == "" {
		entry.Timestamp = l.now().Format(time.RFC3339)
	}
	current.ProcessedFiles = append(current.ProcessedFiles, entry)
	current.LastUpdated = l.now().Format(time.RFC3339)

	return l.write(current)
}

// Record is a convenience wrapper building an Entry from an operation
// outcome.
func (l *Log) Record(resourceID, operation string, opErr error) error {
	entry := Entry{
		ResourceID: resourceID,
		Operation:  operation,
		Status:     StatusSuccess,
	}
	if opErr != nil {
		entry.Status = StatusFailed
		entry.Error = opErr.Error()
	}
	return l.Append(entry)
}

// Entries returns all recorded entries. A missing file yields an empty
// slice, not an error.
func (l *Log) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.read()
	if err != nil {
		return nil, err
	}
	return current.ProcessedFiles, nil
}

// read loads the current log, tolerating a missing file.
func (l *Log) read() (*logFile, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return &logFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}

	var current logFile
	if err := json.Unmarshal(data, &current); err != nil {
		return nil, fmt.Errorf("failed to parse activity log %s: %w", l.path, err)
	}
	return &current, nil
}

// write rewrites the whole log atomically.
func (l *Log) write(current *logFile) error {
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}
	if err := util.AtomicWriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}
	return nil
}
