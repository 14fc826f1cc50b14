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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-bucketmon/pkg/cli"
)

var (
	cfgFile      string
	viperConfig  *viper.Viper
	globalConfig *cli.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bucketmon",
	Short: "Bucket size monitoring and reconciliation pipeline",
	Long: `bucketmon tracks the size of an object-storage bucket over time.

It records a time-series snapshot of bucket size and object count on
every change notification, reconciles the size removed by deletions by
searching historical event logs, answers windowed and all-time-max
queries, and evicts the largest object when an alarm fires.

Supported storage backends:
  - s3     : AWS S3
  - gcs    : Google Cloud Storage
  - azure  : Azure Blob Storage
  - memory : in-memory (testing and dry runs)

Configuration can be provided via:
  - Command-line flags (highest priority)
  - Environment variables (BUCKETMON_*)
  - Configuration file (~/.bucketmon.yaml or ./bucketmon.yaml)
  - Default values (lowest priority)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		viperConfig, err = cli.InitConfig(cfgFile)
		if err != nil {
			return err
		}

		if err := viperConfig.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}

		globalConfig = cli.GetConfig(viperConfig)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.bucketmon.yaml)")
	rootCmd.PersistentFlags().String("backend", "s3", "storage backend (s3, gcs, azure, memory)")
	rootCmd.PersistentFlags().String("bucket", "", "monitored bucket name")
	rootCmd.PersistentFlags().String("region", "", "cloud region")
	rootCmd.PersistentFlags().String("table", "", "snapshot table name")
	rootCmd.PersistentFlags().String("size-index", "", "snapshot size index name")
	rootCmd.PersistentFlags().String("log-group", "", "log group searched for creation records")
	rootCmd.PersistentFlags().String("queue-url", "", "notification queue URL")
	rootCmd.PersistentFlags().Int("window-seconds", 30, "default query window in seconds")
	rootCmd.PersistentFlags().Int("lookback-seconds", 3600, "log search look-back in seconds")
	rootCmd.PersistentFlags().Int("retry-attempts", 3, "log search retry attempts")
	rootCmd.PersistentFlags().Int("settle-delay-seconds", 5, "wait before the first log search")
	rootCmd.PersistentFlags().Int("backoff-seconds", 15, "wait between log search attempts")
	rootCmd.PersistentFlags().String("listen-addr", ":8080", "query API listen address")

	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(driverCmd)
	rootCmd.AddCommand(versionCmd)
}
