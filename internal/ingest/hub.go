package ingest

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/wire"
)

// session is one connected collector. Writes are serialized so acks from
// the ingest loop and broadcasts from the hub never interleave on the
// frame level.
type session struct {
	id string
	ws *websocket.Conn
	mu sync.Mutex
}

func (s *session) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return websocket.Message.Send(s.ws, string(data))
}

// Hub tracks the connected collectors and fans administrator broadcasts
// out to all of them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	pool     pond.Pool
}

// NewHub creates a hub fanning broadcasts out over the given number of
// concurrent senders
func NewHub(senders int) *Hub {
	if senders <= 0 {
		senders = 8
	}
	return &Hub{
		sessions: make(map[string]*session),
		pool:     pond.NewPool(senders),
	}
}

// register adds a connection and returns its session
func (h *Hub) register(ws *websocket.Conn) *session {
	s := &session{id: uuid.New().String(), ws: ws}
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	return s
}

// unregister removes a closed connection
func (h *Hub) unregister(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Count reports the number of connected collectors
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast relays an administrator message to every connected collector.
// Sends run concurrently; a failing connection is logged and skipped, it
// will be reaped by its own read loop.
func (h *Hub) Broadcast(ctx context.Context, b *wire.AdminBroadcast) (int, error) {
	data, err := wire.Marshal(b)
	if err != nil {
		return 0, err
	}

	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	group := h.pool.NewGroup()
	for _, s := range targets {
		group.Submit(func() {
			if err := s.send(data); err != nil {
				logger.WarnCtx(ctx, "failed to deliver broadcast",
					zap.String("session", s.id), zap.Error(err))
			}
		})
	}
	group.Wait()

	return len(targets), nil
}

// Stop tears the fan-out pool down
func (h *Hub) Stop() {
	h.pool.StopAndWait()
}
