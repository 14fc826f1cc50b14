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

// Package reconciler turns change events into delta records. Creation
// deltas come straight from the notification; deletion deltas are
// recovered by searching the event log for the most recent creation
// record of the same key, with a settle delay and a bounded retry
// budget to ride out log-backend eventual consistency.
package reconciler

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/logsearch"
)

// Defaults for the recovery loop.
const (
	DefaultLookBack    = time.Hour
	DefaultAttempts    = 3
	DefaultSettleDelay = 5 * time.Second
	DefaultBackoff     = 15 * time.Second
	DefaultSearchLimit = 10000
)

// Lines with these prefixes are transport/runtime noise in the log
// group and never contain delta records.
var noisePrefixes = []string{"START", "END", "REPORT", "INIT_START", "XRAY"}

// Config controls the deletion-size recovery loop.
type Config struct {
	// LogGroup is the log group searched for prior creation records.
	LogGroup string

	// LookBack bounds how far back in time the search reaches.
	LookBack time.Duration

	// Attempts is the total number of search attempts per deletion.
	Attempts int

	// SettleDelay is the fixed wait before the first attempt, giving
	// the log backend time to ingest recent writes.
	SettleDelay time.Duration

	// Backoff is the fixed wait between attempts.
	Backoff time.Duration

	// SearchLimit caps the number of log lines fetched per attempt.
	SearchLimit int32
}

func (c *Config) applyDefaults() {
	if c.LookBack <= 0 {
		c.LookBack = DefaultLookBack
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
}

// Reconciler produces exactly one DeltaRecord per ChangeEvent and
// emits it to the sink.
type Reconciler struct {
	searcher logsearch.Searcher
	sink     Sink
	log      adapters.Logger
	cfg      Config

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a reconciler. Zero-valued config fields get defaults.
func New(searcher logsearch.Searcher, sink Sink, logger adapters.Logger, cfg Config) *Reconciler {
	cfg.applyDefaults()
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Reconciler{
		searcher: searcher,
		sink:     sink,
		log:      logger,
		cfg:      cfg,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reconcile turns one change event into one emitted DeltaRecord. A
// failed deletion recovery degrades to the UnknownDelta sentinel and is
// still a successful result; only sink failures surface as errors.
func (r *Reconciler) Reconcile(ctx context.Context, event common.ChangeEvent) (common.DeltaRecord, error) {
	record := common.DeltaRecord{
		Bucket:     event.Bucket,
		ObjectName: event.Key,
		EventName:  event.EventName,
		ObservedAt: r.now(),
	}

	switch event.Kind {
	case common.KindCreated:
		record.SizeDelta = event.ReportedSize
		if record.SizeDelta < 0 {
			record.SizeDelta = 0
		}
	case common.KindRemoved:
		size, err := r.recoverSize(ctx, event)
		if err != nil {
			r.log.Warn(ctx, "deletion size not reconciled",
				adapters.F("bucket", event.Bucket),
				adapters.F("key", event.Key),
				adapters.F("error", err.Error()))
			record.SizeDelta = common.UnknownDelta
		} else {
			record.SizeDelta = -size
		}
	default:
		record.SizeDelta = 0
	}

	if err := r.sink.Emit(ctx, record); err != nil {
		return record, err
	}

	r.log.Info(ctx, "event reconciled",
		adapters.F("bucket", record.Bucket),
		adapters.F("object_name", record.ObjectName),
		adapters.F("size_delta", record.SizeDelta),
		adapters.F("event_name", record.EventName))
	return record, nil
}

// ReconcileAll processes events in order. It stops only on sink or
// context failure; per-event recovery failures degrade to sentinels.
func (r *Reconciler) ReconcileAll(ctx context.Context, events []common.ChangeEvent) ([]common.DeltaRecord, error) {
	records := make([]common.DeltaRecord, 0, len(events))
	for _, event := range events {
		record, err := r.Reconcile(ctx, event)
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

// recoverSize searches the log backend for the most recent creation
// record of the event's key and returns its size.
func (r *Reconciler) recoverSize(ctx context.Context, event common.ChangeEvent) (int64, error) {
	if err := r.sleep(ctx, r.cfg.SettleDelay); err != nil {
		return 0, err
	}

	var size int64
	err := retry.Do(
		func() error {
			found, err := r.searchOnce(ctx, event.Key)
			if err != nil {
				return err
			}
			size = found
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.cfg.Attempts)),
		retry.Delay(r.cfg.Backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			r.log.Info(ctx, "retrying log search",
				adapters.F("key", event.Key),
				adapters.F("attempt", attempt+1),
				adapters.F("error", err.Error()))
		}),
	)
	if err != nil {
		return 0, err
	}
	return size, nil
}

// searchOnce runs one search attempt over the look-back window. The
// most recent matching creation record wins.
func (r *Reconciler) searchOnce(ctx context.Context, key string) (int64, error) {
	startMS := r.now().Add(-r.cfg.LookBack).UnixMilli()
	lines, err := r.searcher.Search(ctx, r.cfg.LogGroup, startMS, r.cfg.SearchLimit)
	if err != nil {
		return 0, common.NewDependencyError(common.DependencyLogSearch, err)
	}

	type candidate struct {
		ts     int64
		record common.DeltaRecord
	}
	var candidates []candidate
	for _, line := range lines {
		record, ok := parseDeltaLine(line.Message)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{ts: line.Timestamp, record: record})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ts > candidates[j].ts })

	for _, c := range candidates {
		if c.record.ObjectName != key {
			continue
		}
		if common.ClassifyEvent(c.record.EventName) != common.KindCreated {
			continue
		}
		if c.record.SizeDelta <= 0 {
			continue
		}
		return c.record.SizeDelta, nil
	}
	return 0, common.ErrNoCreationRecord
}

// parseDeltaLine parses one log line as a delta record, rejecting
// runtime noise by prefix before attempting JSON.
func parseDeltaLine(message string) (common.DeltaRecord, bool) {
	trimmed := strings.TrimSpace(message)
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return common.DeltaRecord{}, false
		}
	}

	var record common.DeltaRecord
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return common.DeltaRecord{}, false
	}
	if record.ObjectName == "" || record.EventName == "" {
		return common.DeltaRecord{}, false
	}
	return record, true
}
