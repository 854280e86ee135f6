// Package wire defines the messages exchanged between collectors and the
// aggregator over the streaming channel. Every message is a self-contained
// JSON object carrying a "type" discriminator and an ISO-8601 timestamp.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chesswatch/telemetry/internal/domain"
)

// Kind identifies the payload kind of a wire message
type Kind string

const (
	// KindMetric is a generic numeric measurement
	KindMetric Kind = "metric"
	// KindGameSnapshot is one observed state of a live game
	KindGameSnapshot Kind = "game_snapshot"
	// KindAdminBroadcast is an administrator message relayed by the aggregator
	KindAdminBroadcast Kind = "admin_broadcast"
	// KindAck is a receipt sent by the aggregator for an inbound message
	KindAck Kind = "ack"
)

// Record is a typed message that can be framed for the wire
type Record interface {
	Kind() Kind
}

// Metric is a single numeric measurement produced by a probe
type Metric struct {
	Timestamp  time.Time `json:"timestamp"`
	Origin     string    `json:"origin"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	Metadata   Metadata  `json:"metadata,omitempty"`
}

func (Metric) Kind() Kind { return KindMetric }

// PlayerInfo describes one side of a game at snapshot time
type PlayerInfo struct {
	Name   string  `json:"name"`
	Rating int     `json:"rating"`
	Title  *string `json:"title,omitempty"`
	// RemainingTime is the clock time left in seconds
	RemainingTime *float64 `json:"remaining_time,omitempty"`
}

// GameSnapshot is one observed state of a remote game. NewGame is set on
// the first snapshot of a game's lifetime; GameEnded, Winner and EndReason
// only on the terminal snapshot.
type GameSnapshot struct {
	Timestamp       time.Time  `json:"timestamp"`
	GameID          string     `json:"game_id"`
	White           PlayerInfo `json:"white"`
	Black           PlayerInfo `json:"black"`
	FENPosition     string     `json:"fen_position,omitempty"`
	LastMove        string     `json:"last_move,omitempty"`
	WhitePieceCount *int       `json:"white_piece_count,omitempty"`
	BlackPieceCount *int       `json:"black_piece_count,omitempty"`
	NewGame         bool       `json:"new_game,omitempty"`
	GameEnded       bool       `json:"game_ended,omitempty"`
	Winner          *string    `json:"winner,omitempty"`
	EndReason       *string    `json:"end_reason,omitempty"`
}

func (GameSnapshot) Kind() Kind { return KindGameSnapshot }

// AdminBroadcast is an administrator message. Sender is the network
// address of the originating request, attached by the aggregator.
type AdminBroadcast struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
}

func (AdminBroadcast) Kind() Kind { return KindAdminBroadcast }

// Ack is the aggregator's receipt for one inbound message
type Ack struct {
	Timestamp time.Time `json:"timestamp"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

func (Ack) Kind() Kind { return KindAck }

// Marshal frames a record for the wire by splicing the type discriminator
// into the record's own JSON object.
func Marshal(r Record) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", r.Kind(), err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to reframe %s record: %w", r.Kind(), err)
	}

	kind, err := json.Marshal(r.Kind())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal discriminator: %w", err)
	}
	fields["type"] = kind

	return json.Marshal(fields)
}

// Envelope is a decoded-but-untyped inbound message: the discriminator and
// timestamp have been validated, the full frame is kept verbatim so the
// aggregator can persist it unmodified as the raw payload.
type Envelope struct {
	Type      Kind
	Timestamp time.Time
	Payload   json.RawMessage
}

// Decode validates the shape of an inbound frame and returns its envelope.
// Unknown discriminators and missing timestamps are rejected here so the
// ingestion endpoint never dispatches a malformed message.
func Decode(data []byte) (*Envelope, error) {
	var head struct {
		Type      Kind       `json:"type"`
		Timestamp *time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode message frame: %w", err)
	}

	switch head.Type {
	case KindMetric, KindGameSnapshot, KindAdminBroadcast, KindAck:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMessageType, head.Type)
	}

	if head.Timestamp == nil || head.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w in %s message", domain.ErrMissingTimestamp, head.Type)
	}

	payload := make(json.RawMessage, len(data))
	copy(payload, data)

	return &Envelope{
		Type:      head.Type,
		Timestamp: *head.Timestamp,
		Payload:   payload,
	}, nil
}

// Metric decodes the envelope payload as a metric record
func (e *Envelope) Metric() (*Metric, error) {
	if e.Type != KindMetric {
		return nil, fmt.Errorf("envelope is %s, not %s", e.Type, KindMetric)
	}
	var m Metric
	if err := json.Unmarshal(e.Payload, &m); err != nil {
		return nil, fmt.Errorf("failed to decode metric payload: %w", err)
	}
	return &m, nil
}

// GameSnapshot decodes the envelope payload as a game snapshot record
func (e *Envelope) GameSnapshot() (*GameSnapshot, error) {
	if e.Type != KindGameSnapshot {
		return nil, fmt.Errorf("envelope is %s, not %s", e.Type, KindGameSnapshot)
	}
	var s GameSnapshot
	if err := json.Unmarshal(e.Payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode game snapshot payload: %w", err)
	}
	return &s, nil
}

// Ack decodes the envelope payload as an ack record
func (e *Envelope) Ack() (*Ack, error) {
	if e.Type != KindAck {
		return nil, fmt.Errorf("envelope is %s, not %s", e.Type, KindAck)
	}
	var a Ack
	if err := json.Unmarshal(e.Payload, &a); err != nil {
		return nil, fmt.Errorf("failed to decode ack payload: %w", err)
	}
	return &a, nil
}

// AdminBroadcast decodes the envelope payload as an admin broadcast record
func (e *Envelope) AdminBroadcast() (*AdminBroadcast, error) {
	if e.Type != KindAdminBroadcast {
		return nil, fmt.Errorf("envelope is %s, not %s", e.Type, KindAdminBroadcast)
	}
	var b AdminBroadcast
	if err := json.Unmarshal(e.Payload, &b); err != nil {
		return nil, fmt.Errorf("failed to decode admin broadcast payload: %w", err)
	}
	return &b, nil
}
