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

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
)

func seedStore(t *testing.T) *Store {
	t.Helper()

	store := New()
	ctx := context.Background()
	// Inserted out of order on purpose.
	for _, snap := range []common.Snapshot{
		{Bucket: "monitored", TS: 200, SizeBytes: 47},
		{Bucket: "monitored", TS: 100, SizeBytes: 19},
		{Bucket: "monitored", TS: 9000, SizeBytes: 2},
		{Bucket: "other", TS: 150, SizeBytes: 999},
	} {
		require.NoError(t, store.Put(ctx, snap))
	}
	return store
}

func TestQueryWindowSortsAndFilters(t *testing.T) {
	store := seedStore(t)

	snaps, err := store.QueryWindow(context.Background(), "monitored", 0, 1000)
	require.NoError(t, err)

	require.Len(t, snaps, 2)
	assert.Equal(t, int64(100), snaps[0].TS)
	assert.Equal(t, int64(200), snaps[1].TS)
}

func TestQueryWindowBoundsInclusive(t *testing.T) {
	store := seedStore(t)

	snaps, err := store.QueryWindow(context.Background(), "monitored", 100, 200)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestAllTimeMax(t *testing.T) {
	store := seedStore(t)

	max, err := store.AllTimeMax(context.Background(), "monitored")
	require.NoError(t, err)
	assert.Equal(t, int64(47), max)
}

func TestAllTimeMaxUnknownBucket(t *testing.T) {
	max, err := seedStore(t).AllTimeMax(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Zero(t, max)
}
