package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/client"
	"github.com/chesswatch/telemetry/internal/config"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/probe"
	"github.com/chesswatch/telemetry/internal/scheduler"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "", "Path to environment files directory")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadCollectorConfig(*configPath, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"service": "collector"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting collector", zap.String("origin", cfg.Probes.Origin))

	clock := adapter.NewClock()

	// Transport client
	transport := client.New(client.Config{
		URL:                  cfg.Transport.URL,
		Origin:               cfg.Transport.Origin,
		QueueSize:            cfg.Transport.QueueSize,
		BroadcastLogPath:     cfg.Transport.BroadcastLogPath,
		MaxReconnectInterval: cfg.Transport.MaxReconnectInterval,
	}, clock)

	// Probes
	jobs := []scheduler.Job{
		{
			Probe:    probe.NewSystemProbe(cfg.Probes.Origin, cfg.Probes.SystemDiskPath, clock),
			Interval: cfg.Probes.SystemInterval,
			Timeout:  cfg.Probes.Timeout,
		},
	}
	if cfg.Probes.GameFeedURL != "" {
		jobs = append(jobs, scheduler.Job{
			Probe:    probe.NewGameProbe(cfg.Probes.GameFeedURL, nil, clock),
			Interval: cfg.Probes.GameInterval,
			Timeout:  cfg.Probes.Timeout,
		})
	}

	sched := scheduler.New(transport, clock, jobs...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := transport.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	probeCtx, cancelProbes := context.WithCancel(ctx)
	defer cancelProbes()
	sched.Start(probeCtx)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("Transport failed", zap.Error(err))
	}

	// Stop producing first, then give the transport a moment to flush the
	// remaining backlog before tearing the connection down
	cancelProbes()
	sched.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer drainCancel()
	if err := transport.Drain(drainCtx); err != nil {
		logger.Warn("Shutdown drain incomplete", zap.Error(err),
			zap.Uint64("dropped", transport.DropCount()))
	}
	cancel()

	logger.Info("Collector stopped")
}
