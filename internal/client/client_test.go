package client

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/wire"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{Debug: false})
	if err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testAggregator is a minimal websocket endpoint that records inbound
// frames and acks each one
type testAggregator struct {
	frames chan []byte
	conns  chan *websocket.Conn
	server *http.Server
}

func newTestAggregator() *testAggregator {
	a := &testAggregator{
		frames: make(chan []byte, 100),
		conns:  make(chan *websocket.Conn, 10),
	}
	a.server = &http.Server{Handler: websocket.Handler(a.handle)}
	return a
}

func (a *testAggregator) handle(ws *websocket.Conn) {
	a.conns <- ws
	for {
		var data []byte
		if err := websocket.Message.Receive(ws, &data); err != nil {
			return
		}
		a.frames <- data

		ack, _ := wire.Marshal(wire.Ack{Timestamp: time.Now().UTC(), OK: true})
		_ = websocket.Message.Send(ws, string(ack))
	}
}

func (a *testAggregator) serve(l net.Listener) {
	go func() { _ = a.server.Serve(l) }()
}

func (a *testAggregator) stop() {
	_ = a.server.Close()
}

func newTestClient(addr, logPath string) *Client {
	return New(Config{
		URL:                  "ws://" + addr + "/ws/data",
		Origin:               "http://" + addr,
		QueueSize:            100,
		BroadcastLogPath:     logPath,
		MaxReconnectInterval: time.Second,
	}, adapter.NewClock())
}

func (a *testAggregator) nextFrame(t *testing.T) *wire.Envelope {
	select {
	case data := <-a.frames:
		env, err := wire.Decode(data)
		require.NoError(t, err)
		return env
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestClient_SendsQueuedRecordsInOrder(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	agg := newTestAggregator()
	agg.serve(l)
	defer agg.stop()

	c := newTestClient(l.Addr().String(), "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	for i := 0; i < 3; i++ {
		c.Enqueue(testMetric(i))
	}

	for i := 0; i < 3; i++ {
		env := agg.nextFrame(t)
		assert.Equal(t, wire.KindMetric, env.Type)
		m, err := env.Metric()
		require.NoError(t, err)
		assert.Equal(t, float64(i), m.Value)
	}

	require.NoError(t, c.Drain(ctx))
	assert.Zero(t, c.DropCount())
}

func TestClient_ReplaysBacklogAfterServerComesUp(t *testing.T) {
	// Reserve an address, then close it so the first dials fail
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c := newTestClient(addr, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	// Everything produced during the outage stays queued
	for i := 0; i < 5; i++ {
		c.Enqueue(testMetric(i))
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 5, c.QueueLen())

	l, err = net.Listen("tcp", addr)
	require.NoError(t, err)
	agg := newTestAggregator()
	agg.serve(l)
	defer agg.stop()

	// The backlog arrives in its original order once the dial succeeds
	for i := 0; i < 5; i++ {
		env := agg.nextFrame(t)
		m, err := env.Metric()
		require.NoError(t, err)
		assert.Equal(t, float64(i), m.Value)
	}
	assert.Zero(t, c.DropCount())
}

func TestClient_AppendsBroadcastsToLog(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	agg := newTestAggregator()
	agg.serve(l)
	defer agg.stop()

	logPath := filepath.Join(t.TempDir(), "broadcasts.log")
	c := newTestClient(l.Addr().String(), logPath)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	var conn *websocket.Conn
	select {
	case conn = <-agg.conns:
	case <-time.After(5 * time.Second):
		t.Fatal("client never connected")
	}

	frame, err := wire.Marshal(&wire.AdminBroadcast{
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Sender:    "10.0.0.1",
		Message:   "maintenance at noon",
	})
	require.NoError(t, err)
	require.NoError(t, websocket.Message.Send(conn, string(frame)))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && len(data) > 0
	}, 5*time.Second, 20*time.Millisecond)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "[2026-08-30 12:00:00] [10.0.0.1] maintenance at noon\n", string(data))
}

func TestClient_DrainTimesOutWhileDisconnected(t *testing.T) {
	c := newTestClient("127.0.0.1:1", "")
	c.Enqueue(testMetric(1))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, c.Drain(ctx))
}
