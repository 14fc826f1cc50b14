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

// Package common holds the types shared by every stage of the bucket
// monitoring pipeline.
package common

import (
	"strings"
	"time"
)

// EventKind classifies a storage notification event.
type EventKind int

const (
	// KindIgnored marks events that are neither creations nor removals.
	KindIgnored EventKind = iota

	// KindCreated marks object creation events.
	KindCreated

	// KindRemoved marks object removal events.
	KindRemoved
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case KindCreated:
		return "Created"
	case KindRemoved:
		return "Removed"
	default:
		return "Ignored"
	}
}

// ClassifyEvent maps a raw storage event name onto an EventKind by
// prefix. Event names look like "ObjectCreated:Put" or
// "ObjectRemoved:Delete"; anything else is ignored.
func ClassifyEvent(eventName string) EventKind {
	switch {
	case strings.HasPrefix(eventName, "ObjectCreated"):
		return KindCreated
	case strings.HasPrefix(eventName, "ObjectRemoved"):
		return KindRemoved
	default:
		return KindIgnored
	}
}

// ChangeEvent is one canonical storage change produced by the
// normalizer. It is transient: created and consumed within a single
// reconciler invocation.
type ChangeEvent struct {
	Bucket string
	Key    string
	Kind   EventKind

	// EventName is the raw storage event name, carried through so the
	// emitted DeltaRecord preserves it verbatim.
	EventName string

	// ReportedSize is the object size the storage backend attached to
	// the notification. Only creation events carry it; removals report
	// no size and must be reconciled against the event log.
	ReportedSize int64

	OccurredAt time.Time
}

// UnknownDelta is the sentinel size delta emitted when a removal could
// not be reconciled against any prior creation record. Consumers must
// distinguish it from a real negative delta by the event name, never by
// magnitude.
const UnknownDelta int64 = -1

// DeltaRecord is the reconciled size change attributed to one storage
// event. The json tags are a wire contract with the downstream metric
// extractor: exactly these four fields, one flat object per line.
type DeltaRecord struct {
	Bucket     string `json:"bucket"`
	ObjectName string `json:"object_name"`
	SizeDelta  int64  `json:"size_delta"`
	EventName  string `json:"event_name"`

	ObservedAt time.Time `json:"-"`
}

// Unknown reports whether the record carries the unreconciled sentinel
// rather than a recovered deletion size.
func (r DeltaRecord) Unknown() bool {
	return r.SizeDelta == UnknownDelta && ClassifyEvent(r.EventName) == KindRemoved
}

// Snapshot is a timestamped total recorded for a bucket. Snapshots are
// append-only and never mutated after insertion.
type Snapshot struct {
	Bucket      string `json:"bucket" dynamodbav:"bucket"`
	TS          int64  `json:"ts" dynamodbav:"ts"` // epoch milliseconds
	SizeBytes   int64  `json:"size_bytes" dynamodbav:"size_bytes"`
	ObjectCount int64  `json:"object_count" dynamodbav:"object_count"`
}
