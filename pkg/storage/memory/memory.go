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

// Package memory provides an in-memory object-store backend. This is
// useful for testing, development, and driver dry runs.
package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// Memory is an object-store backend that holds objects in memory.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new Memory backend.
func New() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Configure sets up the backend. The memory backend has no required
// settings.
func (m *Memory) Configure(settings map[string]string) error {
	return nil
}

// ListAll enumerates every object, sorted by key for consistent ordering.
func (m *Memory) ListAll(ctx context.Context) ([]storage.ObjectInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := make([]storage.ObjectInfo, 0, len(m.objects))
	for key, data := range m.objects {
		objects = append(objects, storage.ObjectInfo{Key: key, Size: int64(len(data))})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Put stores an object under the given key.
func (m *Memory) Put(ctx context.Context, key string, data io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dataBytes, err := io.ReadAll(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.objects[key] = dataBytes
	m.mu.Unlock()
	return nil
}

// Delete removes the object with the given key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[key]; !exists {
		return fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}
	delete(m.objects, key)
	return nil
}

// Count returns the number of stored objects. Useful for testing.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Clear removes all objects. Useful for testing.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.objects = make(map[string][]byte)
	m.mu.Unlock()
}
