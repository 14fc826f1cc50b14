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

// Package dynamo provides the DynamoDB snapshot store. The table uses
// (bucket, ts) as its primary key; a global secondary index keyed by
// (bucket, size_bytes) serves all-time-max queries without a scan.
package dynamo

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/snapshot"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store is a snapshot store backed by a DynamoDB table.
type Store struct {
	client API
	table  string
	index  string
}

var _ snapshot.Store = (*Store)(nil)

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// New creates a new unconfigured DynamoDB store.
func New() *Store {
	return &Store{}
}

// NewWithClient creates a store with an injected client, for tests and
// callers that manage their own AWS configuration.
func NewWithClient(client API, table, index string) *Store {
	return &Store{client: client, table: table, index: index}
}

// Configure sets up the store. Recognized keys: table and sizeIndex
// (required), region, access_key_id, secret_access_key, endpoint (for
// DynamoDB Local).
func (s *Store) Configure(settings map[string]string) error {
	s.table = settings["table"]
	if s.table == "" {
		return common.ErrTableNotSet
	}
	s.index = settings["sizeIndex"]
	if s.index == "" {
		return common.ErrIndexNotSet
	}

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
	s.client = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return nil
}

// Put appends one snapshot.
func (s *Store) Put(ctx context.Context, snap common.Snapshot) error {
	if s.client == nil {
		return common.ErrNotConfigured
	}

	item, err := attributevalue.MarshalMap(snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}

// QueryWindow returns all snapshots for bucket with ts in [startMS, endMS],
// ascending.
func (s *Store) QueryWindow(ctx context.Context, bucket string, startMS, endMS int64) ([]common.Snapshot, error) {
	if s.client == nil {
		return nil, common.ErrNotConfigured
	}

	var snapshots []common.Snapshot
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("#b = :b AND #t BETWEEN :start AND :end"),
			ExpressionAttributeNames: map[string]string{
				"#b": "bucket",
				"#t": "ts",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":b":     &types.AttributeValueMemberS{Value: bucket},
				":start": &types.AttributeValueMemberN{Value: formatInt(startMS)},
				":end":   &types.AttributeValueMemberN{Value: formatInt(endMS)},
			},
			ScanIndexForward:  aws.Bool(true), // chronological
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		var page []common.Snapshot
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return snapshots, nil
}

// AllTimeMax returns the greatest recorded size for bucket via the size
// index, or 0 when the bucket has no snapshots.
func (s *Store) AllTimeMax(ctx context.Context, bucket string) (int64, error) {
	if s.client == nil {
		return 0, common.ErrNotConfigured
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.index),
		KeyConditionExpression: aws.String("#b = :b"),
		ExpressionAttributeNames: map[string]string{
			"#b": "bucket",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":b": &types.AttributeValueMemberS{Value: bucket},
		},
		ScanIndexForward: aws.Bool(false), // largest first
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, err
	}
	if len(out.Items) == 0 {
		return 0, nil
	}

	var snap common.Snapshot
	if err := attributevalue.UnmarshalMap(out.Items[0], &snap); err != nil {
		return 0, err
	}
	return snap.SizeBytes, nil
}
