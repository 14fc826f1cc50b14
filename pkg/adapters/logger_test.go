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

package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, InfoLevel)

	logger.Info(context.Background(), "snapshot recorded",
		F("bucket", "monitored"),
		F("size_bytes", 47))

	entry := logLine(t, &buf)
	assert.Equal(t, "snapshot recorded", entry["msg"])
	assert.Equal(t, "monitored", entry["bucket"])
	assert.Equal(t, float64(47), entry["size_bytes"])
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, WarnLevel)

	logger.Debug(context.Background(), "dropped")
	logger.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	logger.Warn(context.Background(), "kept")
	assert.NotZero(t, buf.Len())
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, InfoLevel).WithFields(F("bucket", "monitored"))

	logger.Info(context.Background(), "event")

	entry := logLine(t, &buf)
	assert.Equal(t, "monitored", entry["bucket"])
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&buf, InfoLevel)
	parent.WithFields(F("bucket", "monitored"))

	parent.Info(context.Background(), "event")

	entry := logLine(t, &buf)
	_, ok := entry["bucket"]
	assert.False(t, ok)
}

func TestNilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, InfoLevel)

	assert.NotPanics(t, func() {
		logger.Info(nil, "event") //nolint:staticcheck
	})
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	logger.Info(context.Background(), "discarded")
	assert.Same(t, logger, logger.WithFields(F("k", "v")))
}
