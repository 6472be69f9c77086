package model

// MatchAward is the player-of-match relation. The original schema packed the
// ids into one delimited column; a separate table keeps the FK enforceable.
type MatchAward struct {
	ID       uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID  string  `gorm:"column:match_id;type:text;not null;index"`
	Match    Match   `gorm:"foreignKey:MatchID;references:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PersonID *string `gorm:"column:person_id;type:text"`
	Person   *Person `gorm:"foreignKey:PersonID;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (MatchAward) TableName() string {
	return "match_awards"
}
