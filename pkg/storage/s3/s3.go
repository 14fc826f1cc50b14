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

// Package s3 provides the AWS S3 object-store backend.
package s3

import (
	"context"
	"io"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of the S3 client the backend uses. It matches the
// generated client so tests can substitute a fake.
type API interface {
	ListObjectsV2(ctx context.Context, params *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// S3 is an object-store backend for AWS S3.
type S3 struct {
	client API
	bucket string
}

// New creates a new unconfigured S3 backend.
func New() storage.ObjectStore {
	return &S3{}
}

// NewWithClient creates an S3 backend with an injected client, for tests
// and callers that manage their own AWS configuration.
func NewWithClient(client API, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// Configure sets up the backend with the necessary settings. Recognized
// keys: bucket (required), region, access_key_id, secret_access_key,
// endpoint (for S3-compatible stores, implies path-style addressing).
func (s *S3) Configure(settings map[string]string) error {
	s.bucket = settings["bucket"]
	if s.bucket == "" {
		return common.ErrBucketNotSet
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
	s.client = awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return nil
}

// ListAll enumerates every object in the bucket, draining all pages.
func (s *S3) ListAll(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.client == nil {
		return nil, common.ErrNotConfigured
	}

	var objects []storage.ObjectInfo
	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			objects = append(objects, storage.ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	return objects, nil
}

// Put stores an object under the given key.
func (s *S3) Put(ctx context.Context, key string, data io.Reader) error {
	if s.client == nil {
		return common.ErrNotConfigured
	}
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	return err
}

// Delete removes the object with the given key.
func (s *S3) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return common.ErrNotConfigured
	}
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
