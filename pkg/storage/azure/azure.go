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

// Package azure provides the Azure Blob Storage object-store backend.
package azure

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Azure/azure-storage-blob-go/azblob"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// Azure is an object-store backend for Azure Blob Storage containers.
type Azure struct {
	container  azblob.ContainerURL
	configured bool
}

// New creates a new unconfigured Azure backend.
func New() storage.ObjectStore {
	return &Azure{}
}

// Configure sets up the backend with the necessary settings. Recognized
// keys: accountName, accountKey, containerName (all required).
func (a *Azure) Configure(settings map[string]string) error {
	accountName := settings["accountName"]
	accountKey := settings["accountKey"]
	containerName := settings["containerName"]
	if accountName == "" || accountKey == "" || containerName == "" {
		return common.ErrAccountNotSet
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return err
	}

	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})
	containerURL, err := url.Parse(
		fmt.Sprintf("https://%s.blob.core.windows.net/%s", accountName, containerName))
	if err != nil {
		return err
	}

	a.container = azblob.NewContainerURL(*containerURL, pipeline)
	a.configured = true
	return nil
}

// ListAll enumerates every blob in the container, draining all segments.
func (a *Azure) ListAll(ctx context.Context) ([]storage.ObjectInfo, error) {
	if !a.configured {
		return nil, common.ErrNotConfigured
	}

	var objects []storage.ObjectInfo
	for marker := (azblob.Marker{}); marker.NotDone(); {
		segment, err := a.container.ListBlobsFlatSegment(ctx, marker, azblob.ListBlobsSegmentOptions{})
		if err != nil {
			return nil, err
		}

		for _, blob := range segment.Segment.BlobItems {
			var size int64
			if blob.Properties.ContentLength != nil {
				size = *blob.Properties.ContentLength
			}
			objects = append(objects, storage.ObjectInfo{
				Key:  blob.Name,
				Size: size,
			})
		}

		marker = segment.NextMarker
	}

	return objects, nil
}

// Put stores a blob under the given key.
func (a *Azure) Put(ctx context.Context, key string, data io.Reader) error {
	if !a.configured {
		return common.ErrNotConfigured
	}
	blob := a.container.NewBlockBlobURL(key)
	_, err := azblob.UploadStreamToBlockBlob(ctx, data, blob, azblob.UploadStreamToBlockBlobOptions{})
	return err
}

// Delete removes the blob with the given key.
func (a *Azure) Delete(ctx context.Context, key string) error {
	if !a.configured {
		return common.ErrNotConfigured
	}
	blob := a.container.NewBlockBlobURL(key)
	_, err := blob.Delete(ctx, azblob.DeleteSnapshotsOptionNone, azblob.BlobAccessConditions{})
	return err
}
