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

// Package cli provides configuration loading for the bucketmon
// commands.
package cli

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the pipeline configuration settings.
type Config struct {
	Backend string
	Bucket  string
	Region  string

	// Backend credentials (optional; ambient credentials are used when
	// absent)
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string

	// Snapshot store
	Table     string
	SizeIndex string

	// Reconciliation
	LogGroup           string
	LookBackSeconds    int
	RetryAttempts      int
	SettleDelaySeconds int
	BackoffSeconds     int

	// Transport
	QueueURL string

	// Query surface
	WindowSeconds int
	ListenAddr    string
}

// InitConfig initializes the configuration using Viper.
// Configuration priority: flags > env vars > config file > defaults.
func InitConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("backend", "s3")
	v.SetDefault("window-seconds", 30)
	v.SetDefault("lookback-seconds", 3600)
	v.SetDefault("retry-attempts", 3)
	v.SetDefault("settle-delay-seconds", 5)
	v.SetDefault("backoff-seconds", 15)
	v.SetDefault("listen-addr", ":8080")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".bucketmon")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BUCKETMON")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return v, nil
}

// GetConfig extracts the configuration from Viper into a Config struct.
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Backend:            v.GetString("backend"),
		Bucket:             v.GetString("bucket"),
		Region:             v.GetString("region"),
		AccessKeyID:        v.GetString("access-key-id"),
		SecretAccessKey:    v.GetString("secret-access-key"),
		Endpoint:           v.GetString("endpoint"),
		Table:              v.GetString("table"),
		SizeIndex:          v.GetString("size-index"),
		LogGroup:           v.GetString("log-group"),
		LookBackSeconds:    v.GetInt("lookback-seconds"),
		RetryAttempts:      v.GetInt("retry-attempts"),
		SettleDelaySeconds: v.GetInt("settle-delay-seconds"),
		BackoffSeconds:     v.GetInt("backoff-seconds"),
		QueueURL:           v.GetString("queue-url"),
		WindowSeconds:      v.GetInt("window-seconds"),
		ListenAddr:         v.GetString("listen-addr"),
	}
}

// StorageSettings converts the config into a backend settings map.
func (c *Config) StorageSettings() map[string]string {
	settings := make(map[string]string)
	if c.Bucket != "" {
		settings["bucket"] = c.Bucket
	}
	if c.Region != "" {
		settings["region"] = c.Region
	}
	if c.AccessKeyID != "" {
		settings["access_key_id"] = c.AccessKeyID
	}
	if c.SecretAccessKey != "" {
		settings["secret_access_key"] = c.SecretAccessKey
	}
	if c.Endpoint != "" {
		settings["endpoint"] = c.Endpoint
	}
	return settings
}

// StoreSettings converts the config into snapshot-store settings.
func (c *Config) StoreSettings() map[string]string {
	settings := c.StorageSettings()
	delete(settings, "bucket")
	if c.Table != "" {
		settings["table"] = c.Table
	}
	if c.SizeIndex != "" {
		settings["sizeIndex"] = c.SizeIndex
	}
	return settings
}

// Window returns the default query window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// LookBack returns the log look-back window as a duration.
func (c *Config) LookBack() time.Duration {
	return time.Duration(c.LookBackSeconds) * time.Second
}

// SettleDelay returns the settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelaySeconds) * time.Second
}

// Backoff returns the retry backoff as a duration.
func (c *Config) Backoff() time.Duration {
	return time.Duration(c.BackoffSeconds) * time.Second
}
