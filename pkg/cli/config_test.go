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

package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v, err := InitConfig("")
	require.NoError(t, err)
	cfg := GetConfig(v)

	assert.Equal(t, "s3", cfg.Backend)
	assert.Equal(t, 30, cfg.WindowSeconds)
	assert.Equal(t, 3600, cfg.LookBackSeconds)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 5, cfg.SettleDelaySeconds)
	assert.Equal(t, 15, cfg.BackoffSeconds)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BUCKETMON_BUCKET", "monitored")
	t.Setenv("BUCKETMON_BACKEND", "memory")

	v, err := InitConfig("")
	require.NoError(t, err)
	cfg := GetConfig(v)

	assert.Equal(t, "monitored", cfg.Bucket)
	assert.Equal(t, "memory", cfg.Backend)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bucketmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bucket: from-file\nwindow-seconds: 60\n"), 0o600))

	v, err := InitConfig(path)
	require.NoError(t, err)
	cfg := GetConfig(v)

	assert.Equal(t, "from-file", cfg.Bucket)
	assert.Equal(t, 60, cfg.WindowSeconds)
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bucketmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bucket: from-file\n"), 0o600))
	t.Setenv("BUCKETMON_BUCKET", "from-env")

	v, err := InitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", GetConfig(v).Bucket)
}

func TestStorageSettings(t *testing.T) {
	cfg := &Config{
		Bucket:          "monitored",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:9000",
	}

	settings := cfg.StorageSettings()
	assert.Equal(t, map[string]string{
		"bucket":            "monitored",
		"region":            "us-east-1",
		"access_key_id":     "key",
		"secret_access_key": "secret",
		"endpoint":          "http://localhost:9000",
	}, settings)
}

func TestStorageSettingsOmitsEmpty(t *testing.T) {
	settings := (&Config{Bucket: "monitored"}).StorageSettings()
	assert.Equal(t, map[string]string{"bucket": "monitored"}, settings)
}

func TestStoreSettings(t *testing.T) {
	cfg := &Config{
		Bucket:    "monitored",
		Region:    "us-east-1",
		Table:     "snapshots",
		SizeIndex: "size-index",
	}

	settings := cfg.StoreSettings()
	assert.Equal(t, map[string]string{
		"region":    "us-east-1",
		"table":     "snapshots",
		"sizeIndex": "size-index",
	}, settings)
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{
		WindowSeconds:      30,
		LookBackSeconds:    3600,
		SettleDelaySeconds: 5,
		BackoffSeconds:     15,
	}

	assert.Equal(t, 30*time.Second, cfg.Window())
	assert.Equal(t, time.Hour, cfg.LookBack())
	assert.Equal(t, 5*time.Second, cfg.SettleDelay())
	assert.Equal(t, 15*time.Second, cfg.Backoff())
}
