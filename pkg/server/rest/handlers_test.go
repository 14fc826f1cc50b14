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

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/query"
	snapmem "github.com/jeremyhahn/go-bucketmon/pkg/snapshot/memory"
)

type failingSnapshotStore struct{}

func (f *failingSnapshotStore) Put(ctx context.Context, snap common.Snapshot) error {
	return errors.New("unavailable")
}

func (f *failingSnapshotStore) QueryWindow(ctx context.Context, bucket string, startMS, endMS int64) ([]common.Snapshot, error) {
	return nil, errors.New("unavailable")
}

func (f *failingSnapshotStore) AllTimeMax(ctx context.Context, bucket string) (int64, error) {
	return 0, errors.New("unavailable")
}

func testRouter(t *testing.T, svc *query.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	SetupRoutes(router, NewHandler(svc, nil))
	return router
}

func seededRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := snapmem.New()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, common.Snapshot{Bucket: "monitored", TS: 100, SizeBytes: 19}))
	require.NoError(t, store.Put(ctx, common.Snapshot{Bucket: "monitored", TS: 200, SizeBytes: 47}))

	return testRouter(t, query.New(store, "monitored", query.DefaultWindow))
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := doGet(seededRouter(t), "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestGetUsage(t *testing.T) {
	// The window is huge relative to the seeded timestamps, so both
	// points land inside it.
	w := doGet(seededRouter(t), "/api/v1/usage?window=2000000000")

	require.Equal(t, http.StatusOK, w.Code)

	var report query.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "monitored", report.Bucket)
	assert.Equal(t, 2, report.PointCount)
	assert.Equal(t, int64(47), report.AllTimeMaxBytes)
}

func TestGetUsageZeroWindow(t *testing.T) {
	w := doGet(seededRouter(t), "/api/v1/usage?window=0")

	require.Equal(t, http.StatusOK, w.Code)

	var report query.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Empty(t, report.Points)
	assert.Equal(t, int64(47), report.AllTimeMaxBytes)
}

func TestGetUsageInvalidWindow(t *testing.T) {
	router := seededRouter(t)

	for _, raw := range []string{"abc", "-5", "1.5"} {
		w := doGet(router, "/api/v1/usage?window="+raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, "window=%s", raw)
	}
}

func TestGetUsageDependencyFailure(t *testing.T) {
	router := testRouter(t, query.New(&failingSnapshotStore{}, "monitored", query.DefaultWindow))

	w := doGet(router, "/api/v1/usage")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.DependencySnapshotStore, resp.Where)
	assert.NotEmpty(t, resp.Error)
}

func TestUnprefixedUsageRoute(t *testing.T) {
	w := doGet(seededRouter(t), "/usage")
	assert.Equal(t, http.StatusOK, w.Code)
}
