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

package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
	storagemem "github.com/jeremyhahn/go-bucketmon/pkg/storage/memory"
)

func TestRegisteredBackends(t *testing.T) {
	assert.Subset(t, Backends(), []string{"azure", "gcs", "memory", "s3"})
}

func TestNewMemoryBackend(t *testing.T) {
	backend, err := New("memory", nil)
	require.NoError(t, err)
	assert.IsType(t, &storagemem.Memory{}, backend)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("tape", nil)
	assert.ErrorIs(t, err, common.ErrUnknownBackend)
}

func TestNewConfiguresBackend(t *testing.T) {
	// Backends reject invalid settings during construction.
	_, err := New("s3", map[string]string{})
	assert.ErrorIs(t, err, common.ErrBucketNotSet)
}

func TestRegisterReplaces(t *testing.T) {
	RegisterBackend("test-replace", func(settings map[string]string) (storage.ObjectStore, error) {
		return storagemem.New(), nil
	})
	replacement := storagemem.New()
	RegisterBackend("test-replace", func(settings map[string]string) (storage.ObjectStore, error) {
		return replacement, nil
	})

	backend, err := New("test-replace", nil)
	require.NoError(t, err)
	assert.Same(t, replacement, backend)
}
