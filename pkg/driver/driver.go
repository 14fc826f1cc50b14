// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-bucketmon.
//
// go-bucketmon is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package driver exercises the pipeline end to end: a fixed sequence of
// creates, an overwrite, and a delete, paced so each change can be
// observed, followed by a query-service report.
package driver

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/query"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// DefaultPause is the wait between scenario steps.
const DefaultPause = 4 * time.Second

// Driver runs the exercise scenario against a live backend.
type Driver struct {
	store storage.ObjectStore
	svc   *query.Service
	log   adapters.Logger
	pause time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a driver. A non-positive pause falls back to
// DefaultPause.
func New(store storage.ObjectStore, svc *query.Service, logger adapters.Logger, pause time.Duration) *Driver {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Driver{
		store: store,
		svc:   svc,
		log:   logger,
		pause: pause,
		sleep: sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes the scenario and returns the final report. Keys are
// prefixed with a per-run UUID so concurrent runs do not collide.
func (d *Driver) Run(ctx context.Context, window time.Duration) (*query.Report, error) {
	prefix := "driver-" + uuid.New().String()[:8] + "/"
	first := prefix + "assignment1.txt"
	second := prefix + "assignment2.txt"

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"create 19-byte object", func(ctx context.Context) error {
			return d.store.Put(ctx, first, strings.NewReader("Empty Assignment 1\n"))
		}},
		{"overwrite to 28 bytes", func(ctx context.Context) error {
			return d.store.Put(ctx, first, strings.NewReader("Empty Assignment 2222222222\n"))
		}},
		{"delete first object", func(ctx context.Context) error {
			return d.store.Delete(ctx, first)
		}},
		{"create 2-byte object", func(ctx context.Context) error {
			return d.store.Put(ctx, second, strings.NewReader("33"))
		}},
	}

	for i, step := range steps {
		d.log.Info(ctx, "driver step", adapters.F("step", step.name))
		if err := step.fn(ctx); err != nil {
			return nil, err
		}
		if i < len(steps)-1 {
			if err := d.sleep(ctx, d.pause); err != nil {
				return nil, err
			}
		}
	}

	// Give the tracker a moment to record the last change.
	if err := d.sleep(ctx, time.Second); err != nil {
		return nil, err
	}

	return d.svc.Report(ctx, window)
}
