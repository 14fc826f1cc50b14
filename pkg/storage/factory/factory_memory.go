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
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage/memory"
)

func init() {
	RegisterBackend("memory", func(settings map[string]string) (storage.ObjectStore, error) {
		backend := memory.New()
		if err := backend.Configure(settings); err != nil {
			return nil, err
		}
		return backend, nil
	})
}
