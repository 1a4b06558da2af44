package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/ripple-dev/ripple/internal/config"
	"github.com/ripple-dev/ripple/pkg/devtools"
	"github.com/ripple-dev/ripple/pkg/ripple"
)

func inspectCmd() *cobra.Command {
	var (
		addr        string
		archiveOnce bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run a demo reactive workload and serve the graph inspector",
		Long: `Runs a small reactive workload on a single-threaded event loop and
serves the graph inspector:

  GET /graph      current dependency graph as JSON
  GET /live       WebSocket stream of runtime events
  GET /metrics    Prometheus metrics
  GET /healthz    liveness probe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromCwd()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr()
			}
			return runInspect(cmd.Context(), cfg, addr, archiveOnce)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from ripple.json)")
	cmd.Flags().BoolVar(&archiveOnce, "archive", false, "upload a snapshot to S3 on shutdown")
	return cmd
}

func runInspect(ctx context.Context, cfg *config.Config, addr string, archiveOnce bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ripple.SetLogger(logger)

	// The runtime is single-threaded cooperative: this loop's goroutine
	// is the only one that touches the graph. Everything else dispatches
	// closures into it.
	ops := make(chan func(), 256)
	dispatch := func(fn func()) { ops <- fn }

	srv := devtools.NewServer(func() ripple.GraphSnapshot {
		result := make(chan ripple.GraphSnapshot, 1)
		dispatch(func() { result <- ripple.Snapshot() })
		return <-result
	}, devtools.WithLogger(logger))

	metrics := devtools.NewMetrics(
		devtools.WithNamespace(cfg.Metrics.Namespace),
		devtools.WithSubsystem(cfg.Metrics.Subsystem),
	)
	ripple.SetInstruments(devtools.Fanout(metrics, devtools.NewTracer(), srv.Events()))

	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}
	go func() {
		logger.Info("inspector listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("inspector server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed the demo workload on the runtime thread.
	var workload *demoWorkload
	dispatch(func() { workload = newDemoWorkload(logger) })

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case fn := <-ops:
			fn()

		case <-ticker.C:
			dispatch(func() { workload.tick() })

		case <-ctx.Done():
			logger.Info("shutting down")
			if archiveOnce && cfg.ArchiveEnabled() {
				if err := uploadSnapshot(cfg, logger); err != nil {
					logger.Error("snapshot archive failed", "error", err)
				}
			}
			dispatch(func() { workload.dispose() })
			drain(ops)
			srv.Close()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		}
	}
}

func drain(ops chan func()) {
	for {
		select {
		case fn := <-ops:
			fn()
		default:
			return
		}
	}
}

func uploadSnapshot(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Archive.Region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	archiver := devtools.NewArchiver(s3.NewFromConfig(awsCfg), cfg.Archive.Bucket, cfg.Archive.Prefix)

	key, err := archiver.Upload(ctx, ripple.Snapshot())
	if err != nil {
		return err
	}
	logger.Info("snapshot archived", "bucket", cfg.Archive.Bucket, "key", key)
	return nil
}
