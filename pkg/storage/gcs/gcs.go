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

// Package gcs provides the Google Cloud Storage object-store backend.
package gcs

import (
	"context"
	"io"

	gcstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// GCS is an object-store backend for Google Cloud Storage.
type GCS struct {
	client *gcstorage.Client
	bucket string
}

// New creates a new unconfigured GCS backend.
func New() storage.ObjectStore {
	return &GCS{}
}

// Configure sets up the backend with the necessary settings. Recognized
// keys: bucket (required), credentials_file (optional; application
// default credentials are used when absent).
func (g *GCS) Configure(settings map[string]string) error {
	g.bucket = settings["bucket"]
	if g.bucket == "" {
		return common.ErrBucketNotSet
	}

	ctx := context.TODO()
	var opts []option.ClientOption
	if credsFile := settings["credentials_file"]; credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}

	client, err := gcstorage.NewClient(ctx, opts...)
	if err != nil {
		return err
	}

	g.client = client
	return nil
}

// ListAll enumerates every object in the bucket, draining the iterator.
func (g *GCS) ListAll(ctx context.Context) ([]storage.ObjectInfo, error) {
	if g.client == nil {
		return nil, common.ErrNotConfigured
	}

	var objects []storage.ObjectInfo
	it := g.client.Bucket(g.bucket).Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, storage.ObjectInfo{
			Key:  attrs.Name,
			Size: attrs.Size,
		})
	}

	return objects, nil
}

// Put stores an object under the given key.
func (g *GCS) Put(ctx context.Context, key string, data io.Reader) error {
	if g.client == nil {
		return common.ErrNotConfigured
	}

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Delete removes the object with the given key.
func (g *GCS) Delete(ctx context.Context, key string) error {
	if g.client == nil {
		return common.ErrNotConfigured
	}
	return g.client.Bucket(g.bucket).Object(key).Delete(ctx)
}
