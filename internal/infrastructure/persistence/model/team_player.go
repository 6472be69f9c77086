package model

type TeamPlayer struct {
	ID       uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID  string  `gorm:"column:match_id;type:text;not null;index"`
	Match    Match   `gorm:"foreignKey:MatchID;references:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PersonID *string `gorm:"column:person_id;type:text"`
	Person   *Person `gorm:"foreignKey:PersonID;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	TeamName string  `gorm:"column:team_name;type:text;not null"`
}

func (TeamPlayer) TableName() string {
	return "team_players"
}
