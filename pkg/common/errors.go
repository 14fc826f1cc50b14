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

package common

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors

	// ErrNotConfigured is returned when a client is used before Configure.
	ErrNotConfigured = errors.New("not configured")

	// ErrBucketNotSet is returned when the required bucket is not set.
	ErrBucketNotSet = errors.New("bucket not set")

	// ErrRegionNotSet is returned when the required region is not set.
	ErrRegionNotSet = errors.New("region not set")

	// ErrTableNotSet is returned when the snapshot table name is not set.
	ErrTableNotSet = errors.New("table not set")

	// ErrIndexNotSet is returned when the size index name is not set.
	ErrIndexNotSet = errors.New("sizeIndex not set")

	// ErrLogGroupNotSet is returned when the log group name is not set.
	ErrLogGroupNotSet = errors.New("logGroup not set")

	// ErrQueueNotSet is returned when the notification queue URL is not set.
	ErrQueueNotSet = errors.New("queueUrl not set")

	// ErrAccountNotSet is returned when required account credentials are not set.
	ErrAccountNotSet = errors.New("accountName, accountKey, or containerName not set")

	// Storage operation errors

	// ErrKeyNotFound is returned when a key is not found in storage.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnknownBackend is returned when no backend is registered under
	// the requested name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// Pipeline errors

	// ErrNoCreationRecord is returned by a single log-search attempt when
	// no usable creation record was found for the key. The reconciler
	// retries on it and degrades to the UnknownDelta sentinel once the
	// retry budget is exhausted.
	ErrNoCreationRecord = errors.New("no creation record found")

	// ErrEmptyEnvelope is returned when a transport envelope contains no
	// records at all.
	ErrEmptyEnvelope = errors.New("envelope contains no records")
)

// Dependency identifiers carried by DependencyError so operators can
// tell which collaborator failed.
const (
	DependencySnapshotStore = "snapshot-store"
	DependencyObjectListing = "object-listing"
	DependencyLogSearch     = "log-search"
)

// DependencyError wraps a backend failure with the name of the failing
// dependency, distinguishing "no data" from "backend down".
type DependencyError struct {
	Dependency string
	Err        error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dependency, e.Err)
}

// Unwrap returns the underlying error.
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err with the given dependency identifier.
func NewDependencyError(dependency string, err error) *DependencyError {
	return &DependencyError{Dependency: dependency, Err: err}
}
