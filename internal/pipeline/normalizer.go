// Package pipeline turns accepted wire messages into dimension and fact
// rows. The raw payload is always persisted first, in its own transaction,
// so a normalization failure can never lose data.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/chesswatch/telemetry/internal/adapter"
	"github.com/chesswatch/telemetry/internal/logger"
	"github.com/chesswatch/telemetry/internal/metrics"
	"github.com/chesswatch/telemetry/internal/store"
	"github.com/chesswatch/telemetry/internal/store/schema"
	"github.com/chesswatch/telemetry/internal/wire"
)

// Normalizer persists inbound envelopes: the verbatim payload first, then
// the dimensional fact rows derived from it.
type Normalizer struct {
	store store.Store
	clock adapter.Clock
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(s store.Store, clock adapter.Clock) *Normalizer {
	return &Normalizer{store: s, clock: clock}
}

// Process persists one envelope. The raw row is committed before any
// normalization work; if normalization then fails, the raw row stays and
// the error is returned so the caller can reflect it in the ack.
func (n *Normalizer) Process(ctx context.Context, env *wire.Envelope) error {
	received := n.clock.Now().UTC()
	system := env.Timestamp

	if err := n.store.InsertRawData(ctx, string(env.Type), datatypes.JSON(env.Payload), received, &system); err != nil {
		return fmt.Errorf("failed to persist raw payload: %w", err)
	}

	var err error
	switch env.Type {
	case wire.KindMetric:
		err = n.processMetric(ctx, env)
	case wire.KindGameSnapshot:
		err = n.processGameSnapshot(ctx, env)
	default:
		err = fmt.Errorf("no normalization for %s messages", env.Type)
	}
	if err != nil {
		metrics.NormalizationFailures.Inc()
		logger.ErrorCtx(ctx, "normalization failed",
			zap.String("type", string(env.Type)), zap.Error(err))
		return err
	}
	return nil
}

func (n *Normalizer) processMetric(ctx context.Context, env *wire.Envelope) error {
	m, err := env.Metric()
	if err != nil {
		return err
	}
	if m.Origin == "" || m.MetricType == "" {
		return fmt.Errorf("metric is missing origin or metric_type")
	}

	originID, err := n.store.ResolveOrigin(ctx, m.Origin)
	if err != nil {
		return err
	}
	typeID, err := n.store.ResolveMetricType(ctx, m.MetricType)
	if err != nil {
		return err
	}

	var meta datatypes.JSON
	if len(m.Metadata) > 0 {
		raw, err := json.Marshal(m.Metadata)
		if err != nil {
			return fmt.Errorf("failed to serialize metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	return n.store.InsertMetric(ctx, schema.Metric{
		OriginID:     originID,
		MetricTypeID: typeID,
		Value:        m.Value,
		Timestamp:    m.Timestamp,
		Metadata:     meta,
	})
}

func (n *Normalizer) processGameSnapshot(ctx context.Context, env *wire.Envelope) error {
	s, err := env.GameSnapshot()
	if err != nil {
		return err
	}
	if s.GameID == "" {
		return fmt.Errorf("game snapshot is missing game_id")
	}

	update := store.GameUpdate{
		GameID:       s.GameID,
		Timestamp:    s.Timestamp,
		TimeZoneName: zoneName(s),
	}
	if s.White.Name != "" {
		white := s.White
		update.WhitePlayer = &store.PlayerUpdate{
			Name: white.Name, Rating: white.Rating,
			Title: white.Title, RemainingTime: white.RemainingTime,
		}
	}
	if s.Black.Name != "" {
		black := s.Black
		update.BlackPlayer = &store.PlayerUpdate{
			Name: black.Name, Rating: black.Rating,
			Title: black.Title, RemainingTime: black.RemainingTime,
		}
	}
	if s.LastMove != "" {
		update.LastMove = &s.LastMove
	}
	if s.FENPosition != "" {
		update.FENPosition = &s.FENPosition
	}
	update.WhitePieceCount = s.WhitePieceCount
	update.BlackPieceCount = s.BlackPieceCount
	if s.GameEnded {
		update.Winner = s.Winner
		update.EndReason = s.EndReason
	}

	return n.store.ApplyGameUpdate(ctx, update)
}

// zoneName reports the zone the snapshot's timestamp was expressed in,
// either a named zone like "UTC" or a fixed offset like "+02:00".
func zoneName(s *wire.GameSnapshot) string {
	name, offset := s.Timestamp.Zone()
	if name != "" {
		return name
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
