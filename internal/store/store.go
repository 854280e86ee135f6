package store

import (
	"context"
	"time"

	"github.com/chesswatch/telemetry/internal/store/schema"
	"gorm.io/datatypes"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore

// GameUpdate carries the normalized fields of one game snapshot. Pointer
// fields are nullable on the wire and stay nullable in the database.
type GameUpdate struct {
	GameID          string
	WhitePlayer     *PlayerUpdate
	BlackPlayer     *PlayerUpdate
	LastMove        *string
	FENPosition     *string
	WhitePieceCount *int
	BlackPieceCount *int
	Winner          *string
	EndReason       *string
	Timestamp       time.Time
	TimeZoneName    string
}

// PlayerUpdate carries the identity and latest rating of one player as
// observed in a snapshot.
type PlayerUpdate struct {
	Name          string
	Rating        int
	Title         *string
	RemainingTime *float64
}

// Store defines persistence for dimension rows, fact rows and the raw
// payload audit trail.
type Store interface {
	// ResolveOrigin returns the identifier of the origin dimension row
	// with the given name, creating it if absent. Safe under concurrent
	// callers racing on the same name.
	ResolveOrigin(ctx context.Context, name string) (int64, error)

	// ResolveMetricType returns the identifier of the metric type
	// dimension row with the given name, creating it if absent.
	ResolveMetricType(ctx context.Context, name string) (int64, error)

	// ResolveTimeZoneSource returns the identifier of the time zone
	// source dimension row with the given name, creating it if absent.
	ResolveTimeZoneSource(ctx context.Context, name string) (int64, error)

	// CreateGame creates the game row for the given identifier. Returns
	// domain.ErrGameExists when a row with the identifier already exists.
	CreateGame(ctx context.Context, gameID string, startTime time.Time) (int64, error)

	// ApplyGameUpdate upserts the players, ensures the game row exists
	// and appends one move row, all within a single transaction.
	ApplyGameUpdate(ctx context.Context, update GameUpdate) error

	// InsertMetric appends one measurement fact row
	InsertMetric(ctx context.Context, metric schema.Metric) error

	// InsertRawData appends one verbatim payload row. Committed
	// independently of any later normalization work.
	InsertRawData(ctx context.Context, measurement string, data datatypes.JSON, received time.Time, system *time.Time) error

	// GetGameByGameID looks up a game row by its collector identifier.
	// Returns domain.ErrGameNotFound when no row exists.
	GetGameByGameID(ctx context.Context, gameID string) (*schema.Game, error)

	// CountMoves returns the number of move rows recorded for a game
	CountMoves(ctx context.Context, gameID int64) (int64, error)
}
