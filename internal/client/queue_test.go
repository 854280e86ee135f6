package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesswatch/telemetry/internal/wire"
)

func testMetric(i int) *wire.Metric {
	return &wire.Metric{Origin: "h", MetricType: fmt.Sprintf("m%d", i), Value: float64(i)}
}

func TestQueue_FIFO(t *testing.T) {
	q := newQueue(10)
	for i := 0; i < 3; i++ {
		q.push(testMetric(i))
	}
	assert.Equal(t, 3, q.len())

	for i := 0; i < 3; i++ {
		head, ok := q.peek()
		require.True(t, ok)
		assert.Equal(t, float64(i), head.(*wire.Metric).Value)
		q.pop()
	}

	_, ok := q.peek()
	assert.False(t, ok)
	assert.Zero(t, q.dropCount())
}

func TestQueue_PeekDoesNotRemove(t *testing.T) {
	q := newQueue(10)
	q.push(testMetric(1))

	q.peek()
	q.peek()
	assert.Equal(t, 1, q.len())
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := newQueue(3)
	for i := 0; i < 5; i++ {
		q.push(testMetric(i))
	}

	assert.Equal(t, 3, q.len())
	assert.Equal(t, uint64(2), q.dropCount())

	// The two oldest records were evicted
	head, ok := q.peek()
	require.True(t, ok)
	assert.Equal(t, 2.0, head.(*wire.Metric).Value)
}

func TestQueue_KickSignalled(t *testing.T) {
	q := newQueue(10)
	q.push(testMetric(1))

	select {
	case <-q.kick:
	default:
		t.Fatal("expected a pending wake-up after push")
	}
}
