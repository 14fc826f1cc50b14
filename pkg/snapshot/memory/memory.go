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

// Package memory provides an in-memory snapshot store for testing and
// development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/snapshot"
)

// Store is an in-memory snapshot store.
type Store struct {
	mu        sync.RWMutex
	snapshots []common.Snapshot
}

var _ snapshot.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Put appends one snapshot.
func (s *Store) Put(ctx context.Context, snap common.Snapshot) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	s.snapshots = append(s.snapshots, snap)
	s.mu.Unlock()
	return nil
}

// QueryWindow returns all snapshots for bucket with ts in [startMS, endMS],
// ascending by ts. Insertion order is irrelevant; only timestamps count.
func (s *Store) QueryWindow(ctx context.Context, bucket string, startMS, endMS int64) ([]common.Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	var result []common.Snapshot
	for _, snap := range s.snapshots {
		if snap.Bucket == bucket && snap.TS >= startMS && snap.TS <= endMS {
			result = append(result, snap)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].TS < result[j].TS })
	return result, nil
}

// AllTimeMax returns the greatest recorded size for bucket, or 0 when
// the bucket has no snapshots.
func (s *Store) AllTimeMax(ctx context.Context, bucket string) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var max int64
	for _, snap := range s.snapshots {
		if snap.Bucket == bucket && snap.SizeBytes > max {
			max = snap.SizeBytes
		}
	}
	return max, nil
}

// Len returns the number of stored snapshots. Useful for testing.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
