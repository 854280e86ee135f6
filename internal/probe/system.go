package probe

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/wire"
)

// SystemProbe samples host resource usage. Every run emits one metric
// record per measured quantity, all stamped with the same timestamp and
// origin so they can be correlated downstream.
type SystemProbe struct {
	origin   string
	diskPath string
	clock    adapter.Clock
}

// NewSystemProbe creates a system probe reporting under the given origin
// name. diskPath is the mount point sampled for disk usage.
func NewSystemProbe(origin, diskPath string, clock adapter.Clock) *SystemProbe {
	if diskPath == "" {
		diskPath = "/"
	}
	return &SystemProbe{origin: origin, diskPath: diskPath, clock: clock}
}

// Name implements Probe
func (p *SystemProbe) Name() string { return "system" }

// Collect implements Probe
func (p *SystemProbe) Collect(ctx context.Context) ([]wire.Record, error) {
	now := p.clock.Now().UTC()

	meta := wire.Metadata{}
	if info, err := host.InfoWithContext(ctx); err == nil {
		meta["platform"] = wire.Str(fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion))
	}

	metric := func(name string, value float64) wire.Record {
		return &wire.Metric{
			Timestamp:  now,
			Origin:     p.origin,
			MetricType: name,
			Value:      value,
			Metadata:   meta,
		}
	}

	var records []wire.Record

	// interval 0 reads the delta since the previous call instead of
	// blocking the run
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		records = append(records, metric("cpu_percent", percents[0]))
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return records, fmt.Errorf("failed to read memory stats: %w", err)
	}
	records = append(records,
		metric("memory_percent", vm.UsedPercent),
		metric("memory_available_bytes", float64(vm.Available)),
	)

	if usage, err := disk.UsageWithContext(ctx, p.diskPath); err == nil {
		records = append(records, metric("disk_usage_percent", usage.UsedPercent))
	}

	if counters, err := gopsnet.IOCountersWithContext(ctx, false); err == nil && len(counters) > 0 {
		records = append(records,
			metric("network_bytes_sent", float64(counters[0].BytesSent)),
			metric("network_bytes_recv", float64(counters[0].BytesRecv)),
		)
	}

	if pids, err := process.PidsWithContext(ctx); err == nil {
		records = append(records, metric("process_count", float64(len(pids))))
	}

	return records, nil
}
