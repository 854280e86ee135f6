// Package client implements the collector side of the streaming channel:
// a reconnecting websocket writer with a bounded in-memory queue that
// absorbs aggregator outages.
package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/metrics"
	"github.com/chesswatch/telemetry/internal/wire"
)

// Config holds the transport client settings
type Config struct {
	// URL is the aggregator's websocket endpoint (ws://host:port/ws/data)
	URL string
	// Origin is the origin header sent on the handshake
	Origin string
	// QueueSize bounds the number of records held while disconnected
	QueueSize int
	// BroadcastLogPath is the file administrator broadcasts are appended
	// to; empty disables persistence of broadcasts
	BroadcastLogPath string
	// MaxReconnectInterval caps the backoff between dial attempts
	MaxReconnectInterval time.Duration
}

// Client queues records and streams them to the aggregator, reconnecting
// with exponential backoff when the connection drops. Records are removed
// from the queue only after a successful write, so an outage replays the
// backlog in its original order.
type Client struct {
	cfg   Config
	queue *queue
	clock adapter.Clock
}

// New creates a transport client. It does not connect until Run is called.
func New(cfg Config, clock adapter.Clock) *Client {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.MaxReconnectInterval <= 0 {
		cfg.MaxReconnectInterval = 30 * time.Second
	}
	if cfg.Origin == "" {
		// The handshake requires a parsable origin even though the
		// server does not validate it
		cfg.Origin = "http://localhost/"
	}
	return &Client{
		cfg:   cfg,
		queue: newQueue(cfg.QueueSize),
		clock: clock,
	}
}

// Enqueue queues one record for transmission. Never blocks; when the
// queue is full the oldest queued record is dropped instead.
func (c *Client) Enqueue(record wire.Record) {
	c.queue.push(record)
}

// QueueLen reports the number of records waiting to be sent
func (c *Client) QueueLen() int { return c.queue.len() }

// DropCount reports how many records were evicted from a full queue
func (c *Client) DropCount() uint64 { return c.queue.dropCount() }

// Run connects and streams queued records until ctx is cancelled. Dial
// failures and broken connections are retried with exponential backoff.
func (c *Client) Run(ctx context.Context) error {
	first := true
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			return err
		}
		if !first {
			metrics.Reconnects.Inc()
		}
		first = false
		logger.InfoCtx(ctx, "connected to aggregator",
			zap.String("url", c.cfg.URL), zap.Int("backlog", c.queue.len()))

		err = c.serve(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		logger.WarnCtx(ctx, "connection lost, reconnecting", zap.Error(err))
	}
}

// Drain blocks until every queued record has been written out or ctx
// expires. Call before shutting down so the final records are not lost.
func (c *Client) Drain(ctx context.Context) error {
	ticker := c.clock.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.queue.len() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain interrupted with %d records queued: %w", c.queue.len(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = c.cfg.MaxReconnectInterval
	bo.MaxElapsedTime = 0

	var conn *websocket.Conn
	err := backoff.Retry(func() error {
		ws, err := websocket.Dial(c.cfg.URL, "", c.cfg.Origin)
		if err != nil {
			logger.DebugCtx(ctx, "dial failed", zap.Error(err))
			return err
		}
		conn = ws
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.cfg.URL, err)
	}
	return conn, nil
}

// serve pumps the queue into one connection until it breaks or ctx is
// cancelled. The reader goroutine consumes acks and broadcasts; its exit
// marks the connection dead.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	readerDone := make(chan error, 1)
	go func() {
		readerDone <- c.readLoop(ctx, conn)
	}()

	for {
		record, ok := c.queue.peek()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-readerDone:
				return err
			case <-c.queue.kick:
				continue
			}
		}

		data, err := wire.Marshal(record)
		if err != nil {
			// Unencodable records can never succeed, discard instead of
			// wedging the queue
			logger.ErrorCtx(ctx, "discarding unencodable record", zap.Error(err))
			c.queue.pop()
			continue
		}

		if err := websocket.Message.Send(conn, string(data)); err != nil {
			return fmt.Errorf("failed to send record: %w", err)
		}
		c.queue.pop()
		metrics.RecordsSent.Inc()
	}
}

// readLoop consumes inbound frames: acks are logged, administrator
// broadcasts are appended to the broadcast log file.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			return err
		}

		env, err := wire.Decode(data)
		if err != nil {
			logger.WarnCtx(ctx, "ignoring malformed inbound frame", zap.Error(err))
			continue
		}

		switch env.Type {
		case wire.KindAck:
			ack, err := env.Ack()
			if err != nil {
				logger.WarnCtx(ctx, "ignoring malformed ack", zap.Error(err))
				continue
			}
			if !ack.OK {
				logger.WarnCtx(ctx, "aggregator rejected record", zap.String("error", ack.Error))
			}

		case wire.KindAdminBroadcast:
			broadcast, err := env.AdminBroadcast()
			if err != nil {
				logger.WarnCtx(ctx, "ignoring malformed broadcast", zap.Error(err))
				continue
			}
			c.recordBroadcast(ctx, broadcast)

		default:
			logger.DebugCtx(ctx, "ignoring inbound frame", zap.String("type", string(env.Type)))
		}
	}
}

// recordBroadcast appends one administrator message to the broadcast log
func (c *Client) recordBroadcast(ctx context.Context, b *wire.AdminBroadcast) {
	logger.InfoCtx(ctx, "administrator broadcast",
		zap.String("sender", b.Sender), zap.String("message", b.Message))
	if c.cfg.BroadcastLogPath == "" {
		return
	}

	f, err := os.OpenFile(c.cfg.BroadcastLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to open broadcast log", zap.Error(err))
		return
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] [%s] %s\n",
		b.Timestamp.UTC().Format("2006-01-02 15:04:05"), b.Sender, b.Message)
	if _, err := f.WriteString(line); err != nil {
		logger.ErrorCtx(ctx, "failed to write broadcast log", zap.Error(err))
	}
}
