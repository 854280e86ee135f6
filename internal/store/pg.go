package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chesswatch/telemetry/internal/domain"
	"github.com/chesswatch/telemetry/internal/store/schema"
)

// PGStore is a Postgres-backed implementation of Store
type PGStore struct {
	db *gorm.DB
}

// NewPGStore creates a new Postgres store and runs schema migration
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&schema.Origin{},
		&schema.MetricType{},
		&schema.TimeZoneSource{},
		&schema.Player{},
		&schema.Game{},
		&schema.Move{},
		&schema.Metric{},
		&schema.RawData{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &PGStore{db: db}, nil
}

// ConfigureConnectionPool applies connection pool limits to the underlying
// sql.DB
func (s *PGStore) ConfigureConnectionPool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

// resolveName inserts a name into a dimension table if absent and returns
// the row's identifier. The insert uses ON CONFLICT DO NOTHING so two
// writers racing on the same name both end up reading the same row.
func resolveName[T schema.Origin | schema.MetricType | schema.TimeZoneSource](
	db *gorm.DB, name string, id func(T) int64, newRow func(string) T,
) (int64, error) {
	row := newRow(name)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert dimension row: %w", err)
	}

	if id(row) != 0 {
		return id(row), nil
	}

	// Conflict path: the row already existed, re-read it
	var existing T
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to read dimension row: %w", err)
	}
	return id(existing), nil
}

// ResolveOrigin returns the identifier of the named origin, creating the
// row on first sight
func (s *PGStore) ResolveOrigin(ctx context.Context, name string) (int64, error) {
	return resolveName(s.db.WithContext(ctx), name,
		func(o schema.Origin) int64 { return o.ID },
		func(n string) schema.Origin { return schema.Origin{Name: n} })
}

// ResolveMetricType returns the identifier of the named metric type,
// creating the row on first sight
func (s *PGStore) ResolveMetricType(ctx context.Context, name string) (int64, error) {
	return resolveName(s.db.WithContext(ctx), name,
		func(t schema.MetricType) int64 { return t.ID },
		func(n string) schema.MetricType { return schema.MetricType{Name: n} })
}

// ResolveTimeZoneSource returns the identifier of the named time zone
// source, creating the row on first sight
func (s *PGStore) ResolveTimeZoneSource(ctx context.Context, name string) (int64, error) {
	return resolveName(s.db.WithContext(ctx), name,
		func(z schema.TimeZoneSource) int64 { return z.ID },
		func(n string) schema.TimeZoneSource { return schema.TimeZoneSource{Name: n} })
}

// CreateGame creates the game row for the given collector identifier
func (s *PGStore) CreateGame(ctx context.Context, gameID string, startTime time.Time) (int64, error) {
	game := schema.Game{
		GameID:    gameID,
		StartTime: startTime,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		DoNothing: true,
	}).Create(&game)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create game: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrGameExists
	}
	return game.ID, nil
}

// GetGameByGameID looks up a game row by its collector identifier
func (s *PGStore) GetGameByGameID(ctx context.Context, gameID string) (*schema.Game, error) {
	var game schema.Game
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	return &game, nil
}

// CountMoves returns the number of move rows recorded for a game
func (s *PGStore) CountMoves(ctx context.Context, gameID int64) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&schema.Move{}).Where("game_id = ?", gameID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ApplyGameUpdate upserts players, ensures the game row and appends one
// move row within a single transaction. The surrounding raw payload row is
// written separately, so a failure here never loses the payload.
func (s *PGStore) ApplyGameUpdate(ctx context.Context, update GameUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		whiteID, err := upsertPlayer(tx, update.WhitePlayer)
		if err != nil {
			return err
		}
		blackID, err := upsertPlayer(tx, update.BlackPlayer)
		if err != nil {
			return err
		}

		game := schema.Game{
			GameID:        update.GameID,
			WhitePlayerID: whiteID,
			BlackPlayerID: blackID,
			StartTime:     update.Timestamp,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoNothing: true,
		}).Create(&game).Error; err != nil {
			return fmt.Errorf("failed to ensure game: %w", err)
		}
		if game.ID == 0 {
			var existing schema.Game
			if err := tx.Where("game_id = ?", update.GameID).First(&existing).Error; err != nil {
				return fmt.Errorf("failed to read game: %w", err)
			}
			game = existing

			// Player references can arrive after the game row was first
			// created from an unidentified snapshot
			updates := map[string]interface{}{}
			if game.WhitePlayerID == nil && whiteID != nil {
				updates["white_player_id"] = *whiteID
			}
			if game.BlackPlayerID == nil && blackID != nil {
				updates["black_player_id"] = *blackID
			}
			if len(updates) > 0 {
				if err := tx.Model(&schema.Game{}).Where("id = ?", game.ID).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update game players: %w", err)
				}
			}
		}

		var zoneID *int64
		if update.TimeZoneName != "" {
			id, err := resolveName(tx, update.TimeZoneName,
				func(z schema.TimeZoneSource) int64 { return z.ID },
				func(n string) schema.TimeZoneSource { return schema.TimeZoneSource{Name: n} })
			if err != nil {
				return err
			}
			zoneID = &id
		}

		move := schema.Move{
			GameID:           game.ID,
			LastMove:         update.LastMove,
			FENPosition:      update.FENPosition,
			WhitePieceCount:  update.WhitePieceCount,
			BlackPieceCount:  update.BlackPieceCount,
			Winner:           update.Winner,
			EndReason:        update.EndReason,
			TimeZoneSourceID: zoneID,
			Timestamp:        update.Timestamp,
		}
		if update.WhitePlayer != nil {
			move.WhiteTime = update.WhitePlayer.RemainingTime
		}
		if update.BlackPlayer != nil {
			move.BlackTime = update.BlackPlayer.RemainingTime
		}
		if err := tx.Create(&move).Error; err != nil {
			return fmt.Errorf("failed to append move: %w", err)
		}
		return nil
	})
}

// upsertPlayer creates a player row by name or refreshes the rating and
// title of the existing one
func upsertPlayer(tx *gorm.DB, p *PlayerUpdate) (*int64, error) {
	if p == nil || p.Name == "" {
		return nil, nil
	}
	player := schema.Player{
		Name:   p.Name,
		Rating: p.Rating,
		Title:  p.Title,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "title"}),
	}).Create(&player).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}
	if player.ID == 0 {
		var existing schema.Player
		if err := tx.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to read player: %w", err)
		}
		player = existing
	}
	return &player.ID, nil
}

// InsertMetric appends one measurement fact row
func (s *PGStore) InsertMetric(ctx context.Context, metric schema.Metric) error {
	if err := s.db.WithContext(ctx).Create(&metric).Error; err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}
	return nil
}

// InsertRawData appends one verbatim payload row
func (s *PGStore) InsertRawData(ctx context.Context, measurement string, data datatypes.JSON, received time.Time, system *time.Time) error {
	row := schema.RawData{
		Measurement:       measurement,
		Data:              data,
		ReceivedTimestamp: received,
		SystemTimestamp:   system,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert raw data: %w", err)
	}
	return nil
}
