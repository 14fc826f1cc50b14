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

// Package cleaner evicts the largest object when an alarm fires,
// bringing the bucket back under its size threshold.
package cleaner

import (
	"context"
	"fmt"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// Eviction reports the object removed by EvictLargest.
type Eviction struct {
	DeletedKey  string `json:"deleted_key"`
	DeletedSize int64  `json:"deleted_size"`
}

// Cleaner deletes the largest object in the bucket.
type Cleaner struct {
	store  storage.ObjectStore
	bucket string
	log    adapters.Logger
}

// New creates a cleaner for the given bucket.
func New(store storage.ObjectStore, bucket string, logger adapters.Logger) *Cleaner {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Cleaner{store: store, bucket: bucket, log: logger}
}

// EvictLargest lists all objects, deletes the one with strictly maximum
// size (first-seen wins on exact ties), and reports it. An empty bucket
// yields a nil eviction and no error.
func (c *Cleaner) EvictLargest(ctx context.Context) (*Eviction, error) {
	c.log.Warn(ctx, "alarm triggered, evicting largest object",
		adapters.F("bucket", c.bucket))

	objects, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, common.NewDependencyError(common.DependencyObjectListing, err)
	}

	var largest *storage.ObjectInfo
	for i := range objects {
		if largest == nil || objects[i].Size > largest.Size {
			largest = &objects[i]
		}
	}

	if largest == nil {
		c.log.Warn(ctx, "bucket is empty, nothing to delete",
			adapters.F("bucket", c.bucket))
		return nil, nil
	}

	c.log.Warn(ctx, "largest object detected",
		adapters.F("bucket", c.bucket),
		adapters.F("key", largest.Key),
		adapters.F("size", largest.Size))

	if err := c.store.Delete(ctx, largest.Key); err != nil {
		return nil, fmt.Errorf("deleting %s: %w", largest.Key, err)
	}

	c.log.Warn(ctx, "deleted largest object",
		adapters.F("bucket", c.bucket),
		adapters.F("key", largest.Key),
		adapters.F("size", largest.Size))

	return &Eviction{DeletedKey: largest.Key, DeletedSize: largest.Size}, nil
}
