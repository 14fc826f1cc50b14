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

package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
)

// mockS3Client pages canned listings and records mutations.
type mockS3Client struct {
	pages       []*awss3.ListObjectsV2Output
	pageIndex   int
	putKeys     []string
	deletedKeys []string
}

func (m *mockS3Client) ListObjectsV2(ctx context.Context, params *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	page := m.pages[m.pageIndex]
	m.pageIndex++
	return page, nil
}

func (m *mockS3Client) PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	m.putKeys = append(m.putKeys, aws.ToString(params.Key))
	return &awss3.PutObjectOutput{}, nil
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	m.deletedKeys = append(m.deletedKeys, aws.ToString(params.Key))
	return &awss3.DeleteObjectOutput{}, nil
}

func object(key string, size int64) s3types.Object {
	return s3types.Object{Key: aws.String(key), Size: aws.Int64(size)}
}

func TestListAllDrainsAllPages(t *testing.T) {
	client := &mockS3Client{
		pages: []*awss3.ListObjectsV2Output{
			{
				Contents:              []s3types.Object{object("a.txt", 19), object("b.txt", 28)},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("token-1"),
			},
			{
				Contents:    []s3types.Object{object("c.txt", 2)},
				IsTruncated: aws.Bool(false),
			},
		},
	}

	objects, err := NewWithClient(client, "monitored").ListAll(context.Background())
	require.NoError(t, err)

	require.Len(t, objects, 3)
	assert.Equal(t, "a.txt", objects[0].Key)
	assert.Equal(t, int64(19), objects[0].Size)
	assert.Equal(t, "c.txt", objects[2].Key)
	assert.Equal(t, 2, client.pageIndex)
}

func TestPutAndDelete(t *testing.T) {
	client := &mockS3Client{}
	backend := NewWithClient(client, "monitored")
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "a.txt", strings.NewReader("data")))
	require.NoError(t, backend.Delete(ctx, "a.txt"))

	assert.Equal(t, []string{"a.txt"}, client.putKeys)
	assert.Equal(t, []string{"a.txt"}, client.deletedKeys)
}

func TestUnconfiguredBackend(t *testing.T) {
	backend := New()
	ctx := context.Background()

	_, err := backend.ListAll(ctx)
	assert.ErrorIs(t, err, common.ErrNotConfigured)
	assert.ErrorIs(t, backend.Put(ctx, "k", strings.NewReader("")), common.ErrNotConfigured)
	assert.ErrorIs(t, backend.Delete(ctx, "k"), common.ErrNotConfigured)
}

func TestConfigureRequiresBucket(t *testing.T) {
	err := New().Configure(map[string]string{"region": "us-east-1"})
	assert.ErrorIs(t, err, common.ErrBucketNotSet)
}
