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

// Package snapshot defines the append-only time-series store for bucket
// size snapshots.
package snapshot

import (
	"context"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
)

// Store is the append-only snapshot store. Implementations must
// tolerate concurrent readers and writers without client-side locking;
// ordering is carried entirely by the snapshot timestamps.
type Store interface {
	// Put appends one snapshot. Snapshots are never mutated or deleted
	// by this pipeline; retention is a store policy.
	Put(ctx context.Context, snap common.Snapshot) error

	// QueryWindow returns all snapshots for bucket with ts in
	// [startMS, endMS], ordered ascending by ts. An empty range yields
	// an empty slice, not an error.
	QueryWindow(ctx context.Context, bucket string, startMS, endMS int64) ([]common.Snapshot, error)

	// AllTimeMax returns the greatest size_bytes recorded for bucket
	// across all snapshots, or 0 when the bucket has none.
	AllTimeMax(ctx context.Context, bucket string) (int64, error)
}
