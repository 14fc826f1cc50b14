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

// Package tracker recomputes the monitored bucket's total size on every
// change notification and appends a snapshot. Totals always come from a
// full listing of the live bucket, never from accumulated deltas:
// deletion recovery is best-effort and can yield the unknown sentinel,
// so delta accounting is not trusted for ground truth.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/snapshot"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// Tracker appends one snapshot per invocation.
type Tracker struct {
	store  storage.ObjectStore
	snaps  snapshot.Store
	bucket string
	log    adapters.Logger
	now    func() time.Time
}

// New creates a tracker for the given bucket.
func New(store storage.ObjectStore, snaps snapshot.Store, bucket string, logger adapters.Logger) *Tracker {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Tracker{
		store:  store,
		snaps:  snaps,
		bucket: bucket,
		log:    logger,
		now:    time.Now,
	}
}

// TrackOnce drains the full listing, sums sizes and counts objects, and
// appends exactly one snapshot stamped with the current wall clock. If
// the listing fails nothing is written: every stored snapshot reflects
// a fully drained listing.
func (t *Tracker) TrackOnce(ctx context.Context) (common.Snapshot, error) {
	objects, err := t.store.ListAll(ctx)
	if err != nil {
		return common.Snapshot{}, fmt.Errorf("listing bucket %s: %w", t.bucket, err)
	}

	var totalSize int64
	for _, obj := range objects {
		totalSize += obj.Size
	}

	snap := common.Snapshot{
		Bucket:      t.bucket,
		TS:          t.now().UnixMilli(),
		SizeBytes:   totalSize,
		ObjectCount: int64(len(objects)),
	}

	if err := t.snaps.Put(ctx, snap); err != nil {
		return common.Snapshot{}, fmt.Errorf("writing snapshot: %w", err)
	}

	t.log.Info(ctx, "snapshot recorded",
		adapters.F("bucket", snap.Bucket),
		adapters.F("ts", snap.TS),
		adapters.F("size_bytes", snap.SizeBytes),
		adapters.F("object_count", snap.ObjectCount))
	return snap, nil
}
