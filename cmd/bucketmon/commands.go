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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-bucketmon/pkg/adapters"
	"github.com/jeremyhahn/go-bucketmon/pkg/cleaner"
	"github.com/jeremyhahn/go-bucketmon/pkg/driver"
	"github.com/jeremyhahn/go-bucketmon/pkg/logsearch/cloudwatch"
	"github.com/jeremyhahn/go-bucketmon/pkg/normalizer"
	"github.com/jeremyhahn/go-bucketmon/pkg/query"
	"github.com/jeremyhahn/go-bucketmon/pkg/reconciler"
	"github.com/jeremyhahn/go-bucketmon/pkg/server/rest"
	"github.com/jeremyhahn/go-bucketmon/pkg/snapshot"
	"github.com/jeremyhahn/go-bucketmon/pkg/snapshot/dynamo"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage"
	"github.com/jeremyhahn/go-bucketmon/pkg/storage/factory"
	transport "github.com/jeremyhahn/go-bucketmon/pkg/transport/sqs"
	"github.com/jeremyhahn/go-bucketmon/pkg/tracker"
	"github.com/jeremyhahn/go-bucketmon/pkg/version"
)

var logger = adapters.NewDefaultLogger()

func buildStorage() (storage.ObjectStore, error) {
	return factory.New(globalConfig.Backend, globalConfig.StorageSettings())
}

func buildSnapshotStore() (snapshot.Store, error) {
	store := dynamo.New()
	if err := store.Configure(globalConfig.StoreSettings()); err != nil {
		return nil, err
	}
	return store, nil
}

func buildReconciler(sink reconciler.Sink) (*reconciler.Reconciler, error) {
	searcher := cloudwatch.New()
	if err := searcher.Configure(globalConfig.StorageSettings()); err != nil {
		return nil, err
	}
	return reconciler.New(searcher, sink, logger, reconciler.Config{
		LogGroup:    globalConfig.LogGroup,
		LookBack:    globalConfig.LookBack(),
		Attempts:    globalConfig.RetryAttempts,
		SettleDelay: globalConfig.SettleDelay(),
		Backoff:     globalConfig.Backoff(),
	}), nil
}

func buildQueryService() (*query.Service, error) {
	store, err := buildSnapshotStore()
	if err != nil {
		return nil, err
	}
	return query.New(store, globalConfig.Bucket, globalConfig.Window()), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record one bucket size snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStorage()
		if err != nil {
			return err
		}
		snaps, err := buildSnapshotStore()
		if err != nil {
			return err
		}

		t := tracker.New(store, snaps, globalConfig.Bucket, logger)
		snap, err := t.TrackOnce(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(snap)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [envelope-file]",
	Short: "Reconcile a change notification envelope into delta records",
	Long: `Reads a transport envelope from the given file (or stdin when
omitted), normalizes it into change events, and reconciles each into a
delta record printed to stdout, one JSON line per record.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			input = f
		}

		envelope, err := io.ReadAll(input)
		if err != nil {
			return err
		}

		r, err := buildReconciler(reconciler.NewStdoutSink())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		events, recordErrs := normalizer.New(logger).Normalize(ctx, envelope)
		for _, recordErr := range recordErrs {
			fmt.Fprintln(os.Stderr, recordErr.Error())
		}

		_, err = r.ReconcileAll(ctx, events)
		return err
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Report windowed points and the all-time max size",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildQueryService()
		if err != nil {
			return err
		}

		window := time.Duration(-1)
		if cmd.Flags().Changed("window") {
			seconds, err := cmd.Flags().GetInt("window")
			if err != nil {
				return err
			}
			window = time.Duration(seconds) * time.Second
		}

		report, err := svc.Report(cmd.Context(), window)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Evict the largest object from the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStorage()
		if err != nil {
			return err
		}

		eviction, err := cleaner.New(store, globalConfig.Bucket, logger).EvictLargest(cmd.Context())
		if err != nil {
			return err
		}
		if eviction == nil {
			return printJSON(map[string]any{"deleted": nil})
		}
		return printJSON(eviction)
	},
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the notification queue and run the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalConfig.QueueURL == "" {
			return fmt.Errorf("queue-url is required")
		}

		store, err := buildStorage()
		if err != nil {
			return err
		}
		snaps, err := buildSnapshotStore()
		if err != nil {
			return err
		}
		r, err := buildReconciler(reconciler.NewStdoutSink())
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(globalConfig.Region))
		if err != nil {
			return err
		}

		poller := transport.New(
			awssqs.NewFromConfig(awsCfg),
			globalConfig.QueueURL,
			normalizer.New(logger),
			r,
			tracker.New(store, snaps, globalConfig.Bucket, logger),
			logger,
		)
		return poller.Run(ctx)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildQueryService()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		server := rest.NewServer(globalConfig.ListenAddr, rest.NewHandler(svc, logger), logger)
		return server.Run(ctx)
	},
}

var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Exercise the pipeline end to end",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStorage()
		if err != nil {
			return err
		}
		svc, err := buildQueryService()
		if err != nil {
			return err
		}

		pause, err := cmd.Flags().GetInt("pause-seconds")
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		d := driver.New(store, svc, logger, time.Duration(pause)*time.Second)
		report, err := d.Run(ctx, globalConfig.Window())
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get())
	},
}

func init() {
	queryCmd.Flags().Int("window", 30, "query window in seconds")
	driverCmd.Flags().Int("pause-seconds", 4, "pause between driver steps")
}
