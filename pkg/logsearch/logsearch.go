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

// Package logsearch defines the log-search capability the reconciler
// uses to recover deletion sizes from historical event records.
package logsearch

import "context"

// Line is one raw log line with its ingestion timestamp in epoch
// milliseconds. Lines are returned unordered; callers sort as needed.
type Line struct {
	Timestamp int64
	Message   string
}

// Searcher queries a log backend for lines at or after a start time.
// The backend is eventually consistent: recently written lines may be
// missing from results, so callers retry.
type Searcher interface {
	Search(ctx context.Context, group string, startMS int64, limit int32) ([]Line, error)
}
