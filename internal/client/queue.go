package client

import (
	"sync"

	"github.com/chesswatch/telemetry/internal/metrics"
	"github.com/chesswatch/telemetry/internal/wire"
)

// queue is the bounded FIFO between probe runs and the sender. Records
// stay queued until a write to the transport succeeds, so everything
// accumulated during an outage is replayed in order on reconnect. When
// the queue is full the oldest record is evicted to admit the new one.
type queue struct {
	mu      sync.Mutex
	items   []wire.Record
	max     int
	dropped uint64

	// kick wakes the sender without it having to poll
	kick chan struct{}
}

func newQueue(max int) *queue {
	return &queue{max: max, kick: make(chan struct{}, 1)}
}

// push appends a record, evicting the oldest one when full
func (q *queue) push(record wire.Record) {
	q.mu.Lock()
	if len(q.items) >= q.max {
		q.items = q.items[1:]
		q.dropped++
		metrics.RecordsDropped.Inc()
	}
	q.items = append(q.items, record)
	q.mu.Unlock()

	select {
	case q.kick <- struct{}{}:
	default:
	}
}

// peek returns the head record without removing it
func (q *queue) peek() (wire.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// pop removes the head record after it has been written out
func (q *queue) pop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) > 0 {
		q.items = q.items[1:]
	}
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *queue) dropCount() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
