package schema

// TimeZoneSource represents the time_zone_sources dimension table - the
// time zone names observed on snapshot timestamps ("UTC", "+02:00", ...).
type TimeZoneSource struct {
	// ID is the surrogate identifier referenced by move rows
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the case-sensitive, globally unique zone name
	Name string `gorm:"column:name;not null;uniqueIndex;type:text"`
}

// TableName specifies the table name for the TimeZoneSource model
func (TimeZoneSource) TableName() string {
	return "time_zone_sources"
}
