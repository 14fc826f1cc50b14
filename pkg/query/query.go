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

// Package query answers windowed and all-time-max size queries over the
// snapshot store. All operations are read-only projections, safe to run
// concurrently with tracker writes.
package query

import (
	"context"
	"time"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/snapshot"
)

// DefaultWindow is used when callers pass no window.
const DefaultWindow = 30 * time.Second

// Point is one (ts, size) pair in a windowed result.
type Point struct {
	TS        int64 `json:"ts"`
	SizeBytes int64 `json:"size_bytes"`
}

// Report is the combined response for the visualization surface.
type Report struct {
	Bucket          string    `json:"bucket"`
	WindowSeconds   int64     `json:"window_seconds"`
	Points          []Point   `json:"points"`
	PointCount      int       `json:"point_count"`
	AllTimeMaxBytes int64     `json:"all_time_max_bytes"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Service answers queries for one bucket.
type Service struct {
	store         snapshot.Store
	bucket        string
	defaultWindow time.Duration
	now           func() time.Time
}

// New creates a query service. A non-positive defaultWindow falls back
// to DefaultWindow.
func New(store snapshot.Store, bucket string, defaultWindow time.Duration) *Service {
	if defaultWindow <= 0 {
		defaultWindow = DefaultWindow
	}
	return &Service{
		store:         store,
		bucket:        bucket,
		defaultWindow: defaultWindow,
		now:           time.Now,
	}
}

// Window returns all points with ts in [now-window, now], ascending by
// ts. A zero window yields an empty slice.
func (s *Service) Window(ctx context.Context, window time.Duration) ([]Point, error) {
	if window <= 0 {
		return []Point{}, nil
	}

	nowMS := s.now().UnixMilli()
	startMS := nowMS - window.Milliseconds()

	snaps, err := s.store.QueryWindow(ctx, s.bucket, startMS, nowMS)
	if err != nil {
		return nil, common.NewDependencyError(common.DependencySnapshotStore, err)
	}

	points := make([]Point, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, Point{TS: snap.TS, SizeBytes: snap.SizeBytes})
	}
	return points, nil
}

// AllTimeMax returns the greatest recorded size for the bucket, or 0
// when it has no snapshots.
func (s *Service) AllTimeMax(ctx context.Context) (int64, error) {
	max, err := s.store.AllTimeMax(ctx, s.bucket)
	if err != nil {
		return 0, common.NewDependencyError(common.DependencySnapshotStore, err)
	}
	return max, nil
}

// Report combines the windowed points and the all-time max. A
// non-positive window uses the service default.
func (s *Service) Report(ctx context.Context, window time.Duration) (*Report, error) {
	if window < 0 {
		window = s.defaultWindow
	}

	points, err := s.Window(ctx, window)
	if err != nil {
		return nil, err
	}

	max, err := s.AllTimeMax(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		Bucket:          s.bucket,
		WindowSeconds:   int64(window / time.Second),
		Points:          points,
		PointCount:      len(points),
		AllTimeMaxBytes: max,
		GeneratedAt:     s.now().UTC(),
	}, nil
}
