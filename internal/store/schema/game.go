package schema

import (
	"time"
)

// Game represents the games table, keyed by the collector-provided game
// identifier. Player references are nullable: a snapshot can arrive for a
// game whose players were never identified. StartTime is fixed at the
// first snapshot and never changes.
type Game struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// GameID is the collector-provided unique game identifier
	GameID string `gorm:"column:game_id;not null;uniqueIndex;type:text"`
	// WhitePlayerID references the white player, if identified
	WhitePlayerID *int64 `gorm:"column:white_player_id"`
	// BlackPlayerID references the black player, if identified
	BlackPlayerID *int64 `gorm:"column:black_player_id"`
	// StartTime is when the first snapshot for this game was observed
	StartTime time.Time `gorm:"column:start_time;not null"`

	// Associations
	WhitePlayer *Player `gorm:"foreignKey:WhitePlayerID"`
	BlackPlayer *Player `gorm:"foreignKey:BlackPlayerID"`
	Moves       []Move  `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Game model
func (Game) TableName() string {
	return "games"
}
