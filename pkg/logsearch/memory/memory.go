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

// Package memory provides an in-memory log searcher for testing and
// development. Lines become visible only after their publish delay
// elapses, mimicking an eventually consistent backend.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jeremyhahn/go-bucketmon/pkg/logsearch"
)

type pendingLine struct {
	line      logsearch.Line
	visibleAt time.Time
}

// Searcher is an in-memory log searcher.
type Searcher struct {
	mu    sync.RWMutex
	lines map[string][]pendingLine
	now   func() time.Time
}

var _ logsearch.Searcher = (*Searcher)(nil)

// New creates a new in-memory searcher.
func New() *Searcher {
	return &Searcher{
		lines: make(map[string][]pendingLine),
		now:   time.Now,
	}
}

// Append adds a line to the group, visible immediately.
func (s *Searcher) Append(group string, line logsearch.Line) {
	s.AppendAfter(group, line, 0)
}

// AppendAfter adds a line that only becomes searchable after delay,
// simulating ingestion lag.
func (s *Searcher) AppendAfter(group string, line logsearch.Line, delay time.Duration) {
	s.mu.Lock()
	s.lines[group] = append(s.lines[group], pendingLine{
		line:      line,
		visibleAt: s.now().Add(delay),
	})
	s.mu.Unlock()
}

// Search returns visible lines at or after startMS, up to limit.
func (s *Searcher) Search(ctx context.Context, group string, startMS int64, limit int32) ([]logsearch.Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var result []logsearch.Line
	for _, pending := range s.lines[group] {
		if pending.visibleAt.After(now) {
			continue
		}
		if pending.line.Timestamp < startMS {
			continue
		}
		result = append(result, pending.line)
		if int32(len(result)) >= limit {
			break
		}
	}
	return result, nil
}
