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

// Package version exposes the build version.
package version

// Version is the application version.
// This should be set at build time using:
//
//	go build -ldflags "-X github.com/jeremyhahn/go-bucketmon/pkg/version.Version=1.0.0"
var Version = "0.1.0-alpha" // default version if not set at build time

// Get returns the application version string.
func Get() string {
	return Version
}
