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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
)

func TestPutListDelete(t *testing.T) {
	ctx := context.Background()
	backend := New()
	require.NoError(t, backend.Configure(nil))

	require.NoError(t, backend.Put(ctx, "b.txt", strings.NewReader("1234567890")))
	require.NoError(t, backend.Put(ctx, "a.txt", strings.NewReader("12345")))

	objects, err := backend.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	// Sorted by key.
	assert.Equal(t, "a.txt", objects[0].Key)
	assert.Equal(t, int64(5), objects[0].Size)
	assert.Equal(t, "b.txt", objects[1].Key)
	assert.Equal(t, int64(10), objects[1].Size)

	require.NoError(t, backend.Delete(ctx, "a.txt"))
	assert.Equal(t, 1, backend.Count())
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	backend := New()

	require.NoError(t, backend.Put(ctx, "a.txt", strings.NewReader("12345")))
	require.NoError(t, backend.Put(ctx, "a.txt", strings.NewReader("12")))

	objects, err := backend.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, int64(2), objects[0].Size)
}

func TestDeleteMissingKey(t *testing.T) {
	err := New().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrKeyNotFound)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	backend := New()
	require.NoError(t, backend.Put(ctx, "a.txt", strings.NewReader("12345")))

	backend.Clear()
	assert.Zero(t, backend.Count())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := New()
	_, err := backend.ListAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
