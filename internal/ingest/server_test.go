package ingest_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/ingest"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/mocks"
	"github.com/chesswatch/telemetry/internal/pipeline"
	"github.com/chesswatch/telemetry/internal/wire"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	err := logger.Initialize(logger.Config{Debug: false})
	if err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	ctrl  *gomock.Controller
	store *mocks.MockStore
	hub   *ingest.Hub
	http  *httptest.Server
}

func setupTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clock := adapter.NewClock()
	hub := ingest.NewHub(4)

	server := ingest.NewServer(pipeline.NewNormalizer(store, clock), hub, clock)
	httpServer := httptest.NewServer(server.Router())

	t.Cleanup(func() {
		httpServer.Close()
		hub.Stop()
		ctrl.Finish()
	})

	return &testServer{ctrl: ctrl, store: store, hub: hub, http: httpServer}
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws/data"
	conn, err := websocket.Dial(wsURL, "", ts.http.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receiveEnvelope(t *testing.T, conn *websocket.Conn) *wire.Envelope {
	var data []byte
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, websocket.Message.Receive(conn, &data))
	env, err := wire.Decode(data)
	require.NoError(t, err)
	return env
}

func receiveAck(t *testing.T, conn *websocket.Conn) *wire.Ack {
	env := receiveEnvelope(t, conn)
	require.Equal(t, wire.KindAck, env.Type)
	ack, err := env.Ack()
	require.NoError(t, err)
	return ack
}

func TestServer_IngestMetric(t *testing.T) {
	ts := setupTestServer(t)

	gomock.InOrder(
		ts.store.EXPECT().
			InsertRawData(gomock.Any(), "metric", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil),
		ts.store.EXPECT().ResolveOrigin(gomock.Any(), "host-1").Return(int64(1), nil),
		ts.store.EXPECT().ResolveMetricType(gomock.Any(), "cpu_percent").Return(int64(2), nil),
		ts.store.EXPECT().InsertMetric(gomock.Any(), gomock.Any()).Return(nil),
	)

	conn := ts.dial(t)
	frame := `{"type":"metric","timestamp":"2026-08-30T10:00:00Z","origin":"host-1","metric_type":"cpu_percent","value":12.5}`
	require.NoError(t, websocket.Message.Send(conn, frame))

	ack := receiveAck(t, conn)
	assert.True(t, ack.OK)
	assert.Empty(t, ack.Error)
}

func TestServer_RejectsMalformedFrames(t *testing.T) {
	ts := setupTestServer(t)
	conn := ts.dial(t)

	// Unknown discriminator
	require.NoError(t, websocket.Message.Send(conn,
		`{"type":"bogus","timestamp":"2026-08-30T10:00:00Z"}`))
	ack := receiveAck(t, conn)
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Error, "unknown message type")

	// Missing timestamp
	require.NoError(t, websocket.Message.Send(conn,
		`{"type":"metric","origin":"h","metric_type":"m","value":1}`))
	ack = receiveAck(t, conn)
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Error, "missing timestamp")

	// Broadcasts only enter through the HTTP API
	require.NoError(t, websocket.Message.Send(conn,
		`{"type":"admin_broadcast","timestamp":"2026-08-30T10:00:00Z","sender":"x","message":"hi"}`))
	ack = receiveAck(t, conn)
	assert.False(t, ack.OK)
}

func TestServer_NormalizationFailureAckedNegative(t *testing.T) {
	ts := setupTestServer(t)

	gomock.InOrder(
		ts.store.EXPECT().
			InsertRawData(gomock.Any(), "game_snapshot", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil),
		ts.store.EXPECT().ApplyGameUpdate(gomock.Any(), gomock.Any()).
			Return(errors.New("deadlock detected")),
	)

	conn := ts.dial(t)
	frame := `{"type":"game_snapshot","timestamp":"2026-08-30T10:00:00Z","game_id":"g1","white":{"name":"w","rating":1},"black":{"name":"b","rating":2}}`
	require.NoError(t, websocket.Message.Send(conn, frame))

	ack := receiveAck(t, conn)
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Error, "deadlock detected")
}

func TestServer_BroadcastFanout(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.dial(t)
	second := ts.dial(t)
	require.Eventually(t, func() bool { return ts.hub.Count() == 2 },
		time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.http.URL+"/api/broadcast", "application/json",
		strings.NewReader(`{"message":"maintenance at noon"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, conn := range []*websocket.Conn{first, second} {
		env := receiveEnvelope(t, conn)
		require.Equal(t, wire.KindAdminBroadcast, env.Type)
		b, err := env.AdminBroadcast()
		require.NoError(t, err)
		assert.Equal(t, "maintenance at noon", b.Message)
		assert.NotEmpty(t, b.Sender)
	}
}

func TestServer_BroadcastRequiresMessage(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.http.URL+"/api/broadcast", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Healthz(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.http.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
