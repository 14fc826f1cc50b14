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

// Package storage defines the object-store interface the pipeline
// monitors. Backends live in subpackages and register themselves with
// the factory.
package storage

import (
	"context"
	"io"
)

// ObjectInfo describes one object in a listing.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStore is the interface for monitored object-storage backends.
type ObjectStore interface {
	// Configure sets up the backend with the necessary credentials and
	// settings.
	Configure(settings map[string]string) error

	// ListAll enumerates every object in the bucket, draining all
	// pagination. A partial listing is never returned: any page failure
	// fails the whole call.
	ListAll(ctx context.Context) ([]ObjectInfo, error)

	// Put stores an object under the given key.
	Put(ctx context.Context, key string, data io.Reader) error

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}
