package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Metric represents the metrics fact table: one append-only row per
// observed measurement, referencing the origin and metric type dimensions
// by surrogate identifier. There is no natural key; duplicate rows from
// retransmitted records are an accepted audit-trail property.
type Metric struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// OriginID references the origin dimension row
	OriginID int64 `gorm:"column:origin_id;not null;index"`
	// MetricTypeID references the metric type dimension row
	MetricTypeID int64 `gorm:"column:metric_type_id;not null;index"`
	// Value is the measured value
	Value float64 `gorm:"column:value;not null"`
	// Timestamp is the source-side observation time
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	// Metadata is the measurement's open metadata map, serialized as JSON
	Metadata datatypes.JSON `gorm:"column:metadata"`

	// Associations
	Origin     *Origin     `gorm:"foreignKey:OriginID"`
	MetricType *MetricType `gorm:"foreignKey:MetricTypeID"`
}

// TableName specifies the table name for the Metric model
func (Metric) TableName() string {
	return "metrics"
}
