package schema

// Origin represents the origins dimension table - the named sources that
// produce measurements (one row per collector host or external feed).
// Rows are created on first sight and never deleted.
type Origin struct {
	// ID is the surrogate identifier referenced by fact tables
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the case-sensitive, globally unique origin name
	Name string `gorm:"column:name;not null;uniqueIndex;type:text"`
}

// TableName specifies the table name for the Origin model
func (Origin) TableName() string {
	return "origins"
}
