package schema

// Player represents the players table. Name is the unique key; Rating is
// mutable and always reflects the most recently observed value.
type Player struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the unique player name
	Name string `gorm:"column:name;not null;uniqueIndex;type:text"`
	// Rating is the most recently observed rating
	Rating int `gorm:"column:rating;not null;default:0"`
	// Title is the player's title if any (GM, IM, ...)
	Title *string `gorm:"column:title;type:text"`
}

// TableName specifies the table name for the Player model
func (Player) TableName() string {
	return "players"
}
