// Package probe defines the measurement sources run by the collector's
// scheduler. A probe is polled on a fixed cadence and returns zero or more
// wire records per run.
package probe

import (
	"context"

	"github.com/chesswatch/telemetry/internal/wire"
)

// Probe is one source of telemetry records. Collect must honor ctx
// cancellation; a run that overshoots its deadline is abandoned by the
// scheduler without affecting other probes.
type Probe interface {
	// Name identifies the probe in logs and instrumentation
	Name() string

	// Collect performs one measurement run
	Collect(ctx context.Context) ([]wire.Record, error)
}
