// Package scheduler drives the collector's probes on fixed cadences and
// forwards their records to the transport.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/metrics"
	"github.com/chesswatch/telemetry/internal/probe"
	"github.com/chesswatch/telemetry/internal/wire"
)

// Sink receives the records produced by probe runs
type Sink interface {
	Enqueue(record wire.Record)
}

// Job binds a probe to its polling cadence. Timeout caps a single run; a
// zero Timeout defaults to the interval so one slow run can never overlap
// the next tick.
type Job struct {
	Probe    probe.Probe
	Interval time.Duration
	Timeout  time.Duration
}

// Scheduler runs each registered job on its own cadence. Runs of the same
// probe never overlap; distinct probes run independently, so a stalled
// probe cannot delay the others.
type Scheduler struct {
	jobs  []Job
	sink  Sink
	clock adapter.Clock

	wg sync.WaitGroup
}

// New creates a scheduler forwarding probe records to the given sink
func New(sink Sink, clock adapter.Clock, jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, sink: sink, clock: clock}
}

// Start launches one polling loop per job. It returns immediately; loops
// stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.runLoop(ctx, job)
		}(job)
	}
}

// Wait blocks until all polling loops have stopped
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Interval
	}

	logger.InfoCtx(ctx, "probe loop started",
		zap.String("probe", job.Probe.Name()),
		zap.Duration("interval", job.Interval))

	ticker := s.clock.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run once at startup so a long interval does not delay the first
	// measurement
	s.runOnce(ctx, job, timeout)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "probe loop stopped", zap.String("probe", job.Probe.Name()))
			return
		case <-ticker.C:
			s.runOnce(ctx, job, timeout)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job, timeout time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := job.Probe.Collect(runCtx)
	if err != nil {
		metrics.ProbeErrors.WithLabelValues(job.Probe.Name()).Inc()
		logger.WarnCtx(ctx, "probe run failed",
			zap.String("probe", job.Probe.Name()), zap.Error(err))
	}

	// A failed run may still have produced partial records
	for _, record := range records {
		s.sink.Enqueue(record)
	}
}
