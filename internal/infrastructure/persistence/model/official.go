package model

type Official struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID      string  `gorm:"column:match_id;type:text;not null;index"`
	Match        Match   `gorm:"foreignKey:MatchID;references:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PersonID     *string `gorm:"column:person_id;type:text"`
	Person       *Person `gorm:"foreignKey:PersonID;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	OfficialType string  `gorm:"column:official_type;type:text;not null"`
}

func (Official) TableName() string {
	return "officials"
}
