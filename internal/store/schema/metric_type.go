package schema

// MetricType represents the metric_types dimension table - the named kinds
// of measurement (cpu_percent, memory_percent, ...). Rows are created on
// first sight and never deleted.
type MetricType struct {
	// ID is the surrogate identifier referenced by fact tables
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the case-sensitive, globally unique metric type name
	Name string `gorm:"column:name;not null;uniqueIndex;type:text"`
}

// TableName specifies the table name for the MetricType model
func (MetricType) TableName() string {
	return "metric_types"
}
