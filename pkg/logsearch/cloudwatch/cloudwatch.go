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

// Package cloudwatch provides a log searcher backed by CloudWatch Logs.
package cloudwatch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/logsearch"
)

// API is the subset of the CloudWatch Logs client the searcher uses.
type API interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// Searcher queries a CloudWatch Logs group.
type Searcher struct {
	client API
}

var _ logsearch.Searcher = (*Searcher)(nil)

// New creates a new unconfigured searcher.
func New() *Searcher {
	return &Searcher{}
}

// NewWithClient creates a searcher with an injected client.
func NewWithClient(client API) *Searcher {
	return &Searcher{client: client}
}

// Configure sets up the searcher. Recognized keys: region,
// access_key_id, secret_access_key, endpoint.
func (s *Searcher) Configure(settings map[string]string) error {
	ctx := context.TODO()
	var opts []func(*config.LoadOptions) error

	if region := settings["region"]; region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if key, secret := settings["access_key_id"], settings["secret_access_key"]; key != "" && secret != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return err
	}

	endpoint := settings["endpoint"]
	s.client = cloudwatchlogs.NewFromConfig(cfg, func(o *cloudwatchlogs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return nil
}

// Search returns log lines from the group at or after startMS, draining
// pagination up to limit lines in total.
func (s *Searcher) Search(ctx context.Context, group string, startMS int64, limit int32) ([]logsearch.Line, error) {
	if s.client == nil {
		return nil, common.ErrNotConfigured
	}
	if group == "" {
		return nil, common.ErrLogGroupNotSet
	}

	var lines []logsearch.Line
	var nextToken *string

	for {
		out, err := s.client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(group),
			StartTime:    aws.Int64(startMS),
			Limit:        aws.Int32(limit),
			NextToken:    nextToken,
		})
		if err != nil {
			return nil, err
		}

		for _, event := range out.Events {
			lines = append(lines, logsearch.Line{
				Timestamp: aws.ToInt64(event.Timestamp),
				Message:   aws.ToString(event.Message),
			})
		}

		if out.NextToken == nil || int32(len(lines)) >= limit {
			break
		}
		nextToken = out.NextToken
	}

	return lines, nil
}
