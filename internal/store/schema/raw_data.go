package schema

import (
	"time"

	"gorm.io/datatypes"
)

// RawData represents the raw_data table: the write-once audit trail of
// every payload accepted by the ingestion endpoint, stored verbatim. A raw
// row must exist even when normalization of the same payload fails, and is
// the source of truth when the two disagree.
type RawData struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Measurement is the payload's kind tag ("metric", "game_snapshot")
	Measurement string `gorm:"column:measurement;type:text;index"`
	// Data is the exact payload received over the transport
	Data datatypes.JSON `gorm:"column:data;not null"`
	// ReceivedTimestamp is when the aggregator accepted the payload
	ReceivedTimestamp time.Time `gorm:"column:received_timestamp;not null;index"`
	// SystemTimestamp is the source-side timestamp carried by the payload,
	// if one could be parsed
	SystemTimestamp *time.Time `gorm:"column:system_timestamp"`
}

// TableName specifies the table name for the RawData model
func (RawData) TableName() string {
	return "raw_data"
}
