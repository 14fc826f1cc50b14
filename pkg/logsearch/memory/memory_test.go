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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-bucketmon/pkg/logsearch"
)

func TestSearchFiltersByStartAndLimit(t *testing.T) {
	searcher := New()
	searcher.Append("/group", logsearch.Line{Timestamp: 100, Message: "old"})
	searcher.Append("/group", logsearch.Line{Timestamp: 200, Message: "a"})
	searcher.Append("/group", logsearch.Line{Timestamp: 300, Message: "b"})
	searcher.Append("/group", logsearch.Line{Timestamp: 400, Message: "c"})

	lines, err := searcher.Search(context.Background(), "/group", 150, 2)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Message)
	assert.Equal(t, "b", lines[1].Message)
}

func TestSearchUnknownGroup(t *testing.T) {
	lines, err := New().Search(context.Background(), "/missing", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAppendAfterDelaysVisibility(t *testing.T) {
	searcher := New()
	current := time.UnixMilli(0)
	searcher.now = func() time.Time { return current }

	searcher.AppendAfter("/group", logsearch.Line{Timestamp: 100, Message: "late"}, 5*time.Second)

	lines, err := searcher.Search(context.Background(), "/group", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, lines)

	current = current.Add(6 * time.Second)
	lines, err = searcher.Search(context.Background(), "/group", 0, 10)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "late", lines[0].Message)
}
