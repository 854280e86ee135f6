// Package ingest is the aggregator's network surface: the websocket
// endpoint collectors stream into, the administrator broadcast API and
// the operational endpoints.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/metrics"
	"github.com/chesswatch/telemetry/internal/pipeline"
	"github.com/chesswatch/telemetry/internal/wire"
)

// Server exposes the aggregator's HTTP and websocket endpoints
type Server struct {
	engine     *gin.Engine
	server     *http.Server
	hub        *Hub
	normalizer *pipeline.Normalizer
	clock      adapter.Clock
}

// NewServer creates the aggregator server
func NewServer(normalizer *pipeline.Normalizer, hub *Hub, clock adapter.Clock) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	s := &Server{
		engine:     r,
		hub:        hub,
		normalizer: normalizer,
		clock:      clock,
	}

	r.GET("/ws/data", gin.WrapH(websocket.Handler(s.handleData)))
	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/broadcast", s.handleBroadcast)

	return s
}

// Router exposes the underlying engine for tests
func (s *Server) Router() http.Handler { return s.engine }

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.engine}
	logger.Info("aggregator listening", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleData is the per-collector ingest loop. Messages from one
// connection are normalized in arrival order so a game's move rows are
// appended in the order its snapshots were sent.
func (s *Server) handleData(ws *websocket.Conn) {
	sess := s.hub.register(ws)
	defer func() {
		s.hub.unregister(sess.id)
		ws.Close()
	}()

	ctx := ws.Request().Context()
	logger.InfoCtx(ctx, "collector connected", zap.String("session", sess.id))

	for {
		var data []byte
		if err := websocket.Message.Receive(ws, &data); err != nil {
			logger.InfoCtx(ctx, "collector disconnected",
				zap.String("session", sess.id), zap.Error(err))
			return
		}

		env, err := wire.Decode(data)
		if err != nil {
			metrics.MessagesRejected.Inc()
			s.ack(ctx, sess, err)
			continue
		}

		switch env.Type {
		case wire.KindMetric, wire.KindGameSnapshot:
			metrics.MessagesReceived.WithLabelValues(string(env.Type)).Inc()
			s.ack(ctx, sess, s.normalizer.Process(ctx, env))
		case wire.KindAck:
			// Receipts are outbound-only, ignore echoes
		default:
			metrics.MessagesRejected.Inc()
			s.ack(ctx, sess, fmt.Errorf("%s messages are not accepted on this channel", env.Type))
		}
	}
}

// ack sends the receipt for one inbound message. Receipts are
// informational; a failed ack write is logged and the loop keeps going.
func (s *Server) ack(ctx context.Context, sess *session, result error) {
	ack := wire.Ack{
		Timestamp: s.clock.Now().UTC(),
		OK:        result == nil,
	}
	if result != nil {
		ack.Error = result.Error()
	}

	data, err := wire.Marshal(ack)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to encode ack", zap.Error(err))
		return
	}
	if err := sess.send(data); err != nil {
		logger.WarnCtx(ctx, "failed to send ack",
			zap.String("session", sess.id), zap.Error(err))
	}
}

type broadcastRequest struct {
	Message string `json:"message" binding:"required"`
}

// handleBroadcast accepts an administrator message and relays it to
// every connected collector. The sender recorded on the message is the
// caller's network address. Broadcasts bypass the store pipeline.
func (s *Server) handleBroadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := &wire.AdminBroadcast{
		Timestamp: s.clock.Now().UTC(),
		Sender:    c.ClientIP(),
		Message:   req.Message,
	}

	delivered, err := s.hub.Broadcast(c.Request.Context(), b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivered": delivered})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"collectors": s.hub.Count(),
		"time":       s.clock.Now().UTC().Format(time.RFC3339),
	})
}
