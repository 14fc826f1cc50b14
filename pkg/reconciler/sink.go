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

package reconciler

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
)

// Sink receives reconciled delta records one at a time.
type Sink interface {
	Emit(ctx context.Context, record common.DeltaRecord) error
}

// LineSink writes each record as a single flat JSON line. The line
// shape is a wire contract with the downstream metric extractor:
// exactly the fields bucket, object_name, size_delta, event_name, and
// nothing around them.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineSink creates a sink writing to w.
func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

// NewStdoutSink creates a sink writing to stdout, where the external
// metric filter reads it.
func NewStdoutSink() *LineSink {
	return NewLineSink(os.Stdout)
}

// Emit writes one record as one line.
func (s *LineSink) Emit(ctx context.Context, record common.DeltaRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(append(data, '\n'))
	return err
}

// MemorySink collects emitted records for testing.
type MemorySink struct {
	mu      sync.Mutex
	records []common.DeltaRecord
}

// NewMemorySink creates an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends the record.
func (s *MemorySink) Emit(ctx context.Context, record common.DeltaRecord) error {
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	return nil
}

// Records returns a copy of everything emitted so far.
func (s *MemorySink) Records() []common.DeltaRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.DeltaRecord, len(s.records))
	copy(out, s.records)
	return out
}
