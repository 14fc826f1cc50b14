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

// Package factory provides a registry of object-store backends keyed by
// name.
package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jeremyhahn/go-bucketmon/pkg/common"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
)

// Constructor builds a configured backend from a settings map.
type Constructor func(settings map[string]string) (storage.ObjectStore, error)

var (
	mu       sync.RWMutex
	backends = make(map[string]Constructor)
)

// RegisterBackend registers a backend constructor under the given name.
// Later registrations under the same name replace earlier ones.
func RegisterBackend(name string, constructor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	backends[name] = constructor
}

// New constructs and configures the backend registered under name.
func New(name string, settings map[string]string) (storage.ObjectStore, error) {
	mu.RLock()
	constructor, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownBackend, name)
	}
	return constructor(settings)
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
