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

// Package normalizer parses transport envelopes into canonical change
// events. The envelope is three layers deep: a queue message wrapping a
// notification wrapping a list of storage event records.
package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/common"
)

// Envelope is the outer transport record list as delivered by the queue.
type Envelope struct {
	Records []TransportRecord `json:"Records"`
}

// TransportRecord is one queue message. Body holds the serialized
// notification.
type TransportRecord struct {
	MessageID string `json:"messageId"`
	Body      string `json:"body"`
}

// notification is the middle layer: a topic notification whose Message
// holds the serialized storage event document.
type notification struct {
	Message string `json:"Message"`
}

// storageEventDoc is the innermost layer: the storage event list.
type storageEventDoc struct {
	Records []storageEventRecord `json:"Records"`
}

type storageEventRecord struct {
	EventName string    `json:"eventName"`
	EventTime time.Time `json:"eventTime"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key  string `json:"key"`
			Size int64  `json:"size"`
		} `json:"object"`
	} `json:"s3"`
}

// RecordError reports one transport record that could not be parsed.
// One bad record never aborts the batch; processing continues with the
// next record.
type RecordError struct {
	MessageID string
	Err       error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s: %v", e.MessageID, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Normalizer turns transport envelopes into change events.
type Normalizer struct {
	log adapters.Logger
}

// New creates a normalizer.
func New(logger adapters.Logger) *Normalizer {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Normalizer{log: logger}
}

// Normalize parses a full envelope. Events from all parsable records
// are returned in order; unparsable records are reported in the error
// slice and skipped. Parsing is a pure function of the input, so
// re-running it on the same envelope yields an identical sequence.
func (n *Normalizer) Normalize(ctx context.Context, envelope []byte) ([]common.ChangeEvent, []*RecordError) {
	var outer Envelope
	if err := json.Unmarshal(envelope, &outer); err != nil {
		n.log.Error(ctx, "unparsable envelope", adapters.F("error", err.Error()))
		return nil, []*RecordError{{Err: err}}
	}

	var events []common.ChangeEvent
	var errs []*RecordError
	for _, record := range outer.Records {
		recordEvents, err := n.NormalizeBody(ctx, []byte(record.Body))
		if err != nil {
			recordErr := &RecordError{MessageID: record.MessageID, Err: err}
			n.log.Error(ctx, "unparsable transport record",
				adapters.F("message_id", record.MessageID),
				adapters.F("error", err.Error()))
			errs = append(errs, recordErr)
			continue
		}
		events = append(events, recordEvents...)
	}
	return events, errs
}

// NormalizeBody parses one queue message body (the notification layer)
// into change events. Events with unrecognized names yield nothing;
// they are ignored, not errors.
func (n *Normalizer) NormalizeBody(ctx context.Context, body []byte) ([]common.ChangeEvent, error) {
	var note notification
	if err := json.Unmarshal(body, &note); err != nil {
		return nil, fmt.Errorf("notification: %w", err)
	}

	var doc storageEventDoc
	if err := json.Unmarshal([]byte(note.Message), &doc); err != nil {
		return nil, fmt.Errorf("storage event document: %w", err)
	}

	var events []common.ChangeEvent
	for _, record := range doc.Records {
		kind := common.ClassifyEvent(record.EventName)
		if kind == common.KindIgnored {
			n.log.Debug(ctx, "ignoring event", adapters.F("event_name", record.EventName))
			continue
		}

		// Object keys arrive URL-encoded (spaces as "+").
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			key = record.S3.Object.Key
		}

		events = append(events, common.ChangeEvent{
			Bucket:       record.S3.Bucket.Name,
			Key:          key,
			Kind:         kind,
			EventName:    record.EventName,
			ReportedSize: record.S3.Object.Size,
			OccurredAt:   record.EventTime,
		})
	}
	return events, nil
}
