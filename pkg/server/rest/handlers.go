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
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/query"
	"github.com/jeremyhahn/go-bucketmon/pkg/version"
)

// Handler serves the query endpoints.
type Handler struct {
	svc *query.Service
	log adapters.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(svc *query.Service, logger adapters.Logger) *Handler {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Handler{svc: svc, log: logger}
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Get(),
	})
}

// GetUsage returns the windowed point list plus the all-time max.
// ?window=NN overrides the default window in seconds.
func (h *Handler) GetUsage(c *gin.Context) {
	window := time.Duration(-1)
	if raw, ok := c.GetQuery("window"); ok {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "window must be a non-negative integer",
			})
			return
		}
		window = time.Duration(seconds) * time.Second
	}

	report, err := h.svc.Report(c.Request.Context(), window)
	if err != nil {
		var depErr *common.DependencyError
		where := ""
		if errors.As(err, &depErr) {
			where = depErr.Dependency
		}
		h.log.Error(c.Request.Context(), "usage query failed",
			adapters.F("where", where),
			adapters.F("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Where: where,
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
