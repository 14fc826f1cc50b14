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

// Package sqs polls the notification queue and feeds each message
// through the normalizer, reconciler, and tracker. Delivery is
// at-least-once: messages are deleted only after successful handling,
// and the downstream stages are idempotent against replays.
package sqs

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/normalizer"
	"github.com/jeremyhahn/go-bucketmon/pkg/reconciler"
	"github.com/jeremyhahn/go-bucketmon/pkg/tracker"
)

const (
	maxMessagesPerReceive = 10
	waitTimeSeconds       = 20
)

// API is the subset of the SQS client the poller uses.
type API interface {
	ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *awssqs.DeleteMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteMessageOutput, error)
}

// Poller drives the pipeline from an SQS queue.
type Poller struct {
	client     API
	queueURL   string
	normalizer *normalizer.Normalizer
	reconciler *reconciler.Reconciler
	tracker    *tracker.Tracker
	log        adapters.Logger
	limiter    *rate.Limiter
}

// New creates a poller. tracker may be nil when snapshot recording is
// handled elsewhere.
func New(client API, queueURL string, n *normalizer.Normalizer, r *reconciler.Reconciler, t *tracker.Tracker, logger adapters.Logger) *Poller {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Poller{
		client:     client,
		queueURL:   queueURL,
		normalizer: n,
		reconciler: r,
		tracker:    t,
		log:        logger,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Run polls until the context is canceled. Receive failures are logged
// and retried on the next tick rather than stopping the loop.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		out, err := p.client.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
			QueueUrl:            aws.String(p.queueURL),
			MaxNumberOfMessages: maxMessagesPerReceive,
			WaitTimeSeconds:     waitTimeSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Error(ctx, "receive failed", adapters.F("error", err.Error()))
			continue
		}

		if err := p.HandleBatch(ctx, out.Messages); err != nil {
			return err
		}
	}
}

// HandleBatch processes one batch of messages concurrently. Each
// message is deleted only after it was handled successfully; failed
// messages stay on the queue for redelivery.
func (p *Poller) HandleBatch(ctx context.Context, messages []types.Message) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, msg := range messages {
		g.Go(func() error {
			if err := p.handleMessage(gctx, msg); err != nil {
				p.log.Error(gctx, "message handling failed",
					adapters.F("message_id", aws.ToString(msg.MessageId)),
					adapters.F("error", err.Error()))
				// Leave the message for redelivery.
				return nil
			}

			_, err := p.client.DeleteMessage(gctx, &awssqs.DeleteMessageInput{
				QueueUrl:      aws.String(p.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			})
			if err != nil {
				p.log.Error(gctx, "delete failed",
					adapters.F("message_id", aws.ToString(msg.MessageId)),
					adapters.F("error", err.Error()))
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *Poller) handleMessage(ctx context.Context, msg types.Message) error {
	events, err := p.normalizer.NormalizeBody(ctx, []byte(aws.ToString(msg.Body)))
	if err != nil {
		// Malformed payload: log and drop. Redelivery cannot fix it.
		p.log.Error(ctx, "unparsable message",
			adapters.F("message_id", aws.ToString(msg.MessageId)),
			adapters.F("error", err.Error()))
		return nil
	}

	if _, err := p.reconciler.ReconcileAll(ctx, events); err != nil {
		return err
	}

	if p.tracker != nil && len(events) > 0 {
		if _, err := p.tracker.TrackOnce(ctx); err != nil {
			return err
		}
	}
	return nil
}
