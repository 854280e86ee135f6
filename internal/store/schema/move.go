package schema

import (
	"time"
)

// Move represents the moves table: the append-only per-game sequence of
// snapshots. Rows are immutable once written. Winner and EndReason are set
// only on the terminal snapshot's row.
type Move struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// GameID references the owning game row
	GameID int64 `gorm:"column:game_id;not null;index"`
	// LastMove is the notation of the move that produced this position
	LastMove *string `gorm:"column:last_move;type:text"`
	// WhiteTime is white's remaining clock time in seconds
	WhiteTime *float64 `gorm:"column:white_time"`
	// BlackTime is black's remaining clock time in seconds
	BlackTime *float64 `gorm:"column:black_time"`
	// WhitePieceCount is the number of white pieces on the board
	WhitePieceCount *int `gorm:"column:white_piece_count"`
	// BlackPieceCount is the number of black pieces on the board
	BlackPieceCount *int `gorm:"column:black_piece_count"`
	// FENPosition is the board position encoding
	FENPosition *string `gorm:"column:fen_position;type:text"`
	// Winner is set on the terminal snapshot only ("white", "black")
	Winner *string `gorm:"column:winner;type:text"`
	// EndReason is set on the terminal snapshot only
	EndReason *string `gorm:"column:end_reason;type:text"`
	// TimeZoneSourceID references the zone the source timestamp carried
	TimeZoneSourceID *int64 `gorm:"column:time_zone_source_id"`
	// Timestamp is the source-side observation time
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`

	// Associations
	Game           *Game           `gorm:"foreignKey:GameID"`
	TimeZoneSource *TimeZoneSource `gorm:"foreignKey:TimeZoneSourceID"`
}

// TableName specifies the table name for the Move model
func (Move) TableName() string {
	return "moves"
}
