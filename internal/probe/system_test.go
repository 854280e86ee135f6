package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/wire"
)

func TestSystemProbe_Collect(t *testing.T) {
	p := NewSystemProbe("test-host", "/", adapter.NewClock())

	records, err := p.Collect(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, records)

	seen := map[string]bool{}
	for _, r := range records {
		m, ok := r.(*wire.Metric)
		require.True(t, ok)
		assert.Equal(t, "test-host", m.Origin)
		assert.WithinDuration(t, time.Now(), m.Timestamp, time.Minute)
		seen[m.MetricType] = true
	}

	// Memory stats are always available
	assert.True(t, seen["memory_percent"])
	assert.True(t, seen["memory_available_bytes"])
}

func TestSystemProbe_DefaultDiskPath(t *testing.T) {
	p := NewSystemProbe("test-host", "", adapter.NewClock())
	assert.Equal(t, "/", p.diskPath)
}
