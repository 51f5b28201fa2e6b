// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package batch drives one export run: list resources, export each item
// independently, aggregate the outcome.
//
// The driver is a small state machine:
//
//	INIT -> LISTING -> EXPORTING_ITEM* -> DONE
//
// LISTING may transition straight to DONE when the lister returns nothing;
// that is reported, not an error. Per-item failures never abort the run.
// The only fatal conditions are missing configuration (checked by the
// caller before the driver starts) and a lister error, which is surfaced
// rather than treated as zero items.
package batch

import (
	"context"
	"fmt"

	"github.com/jeranaias/aiexport/internal/export"
)

// State is the driver's position in the run.
type State int

const (
	StateInit State = iota
	StateListing
	StateExporting
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateListing:
		return "LISTING"
	case StateExporting:
		return "EXPORTING_ITEM"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ListFunc enumerates the resources for this run. An empty slice with a nil
// error means success with nothing to do; an error is fatal to the run.
type ListFunc func(ctx context.Context) ([]export.Resource, error)

// ExportFunc exports one resource. Failures are reported on the Result,
// never as a panic or batch-aborting error.
type ExportFunc func(ctx context.Context, res export.Resource) export.Result

// ItemFunc observes one finished item; used for progress output.
type ItemFunc func(index, total int, res export.Resource, result export.Result)

// Result aggregates one run.
type Result struct {
	Found    int
	Exported int
	Failed   int
}

// Driver runs one batch.
type Driver struct {
	List   ListFunc
	Export ExportFunc
	// OnItem, when set, is called after each item completes.
	OnItem ItemFunc

	state State
}

// State returns the driver's current state.
func (d *Driver) State() State {
	return d.state
}

// Run executes the batch. The returned error is non-nil only for fatal
// conditions (lister failure); per-item outcomes live in the Result.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	var result Result

	d.state = StateListing
	resources, err := d.List(ctx)
	if err != nil {
		d.state = StateDone
		return result, fmt.Errorf("listing failed: %w", err)
	}

	result.Found = len(resources)
	if result.Found == 0 {
		d.state = StateDone
		return result, nil
	}

	d.state = StateExporting
	for i, res := range resources {
		itemResult := d.Export(ctx, res)
		if itemResult.Failed() {
			result.Failed++
		} else {
			result.Exported++
		}
		if d.OnItem != nil {
			d.OnItem(i+1, result.Found, res, itemResult)
		}
	}

	d.state = StateDone
	return result, nil
}
