package model

// Delivery is one ball of play. Balls is 1-based within the over; within a
// match rows are inserted in (innings, overs, balls) order.
type Delivery struct {
	ID              uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID         string  `gorm:"column:match_id;type:text;not null;index"`
	Match           Match   `gorm:"foreignKey:MatchID;references:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Innings         int     `gorm:"column:innings;not null"`
	Team            string  `gorm:"column:team;type:text;not null"`
	Overs           int     `gorm:"column:overs;not null"`
	Balls           int     `gorm:"column:balls;not null"`
	Batter          *string `gorm:"column:batter;type:text"`
	BatterRef       *Person `gorm:"foreignKey:Batter;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Bowler          *string `gorm:"column:bowler;type:text"`
	BowlerRef       *Person `gorm:"foreignKey:Bowler;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	NonStriker      *string `gorm:"column:non_striker;type:text"`
	NonStrikerRef   *Person `gorm:"foreignKey:NonStriker;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	RunsBatter      int     `gorm:"column:runs_batter;not null"`
	RunsExtras      int     `gorm:"column:runs_extras;not null"`
	RunsTotal       int     `gorm:"column:runs_total;not null"`
	PlayerOut       *string `gorm:"column:player_out;type:text"`
	PlayerOutRef    *Person `gorm:"foreignKey:PlayerOut;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	DismissalKind   *string `gorm:"column:dismissal_kind;type:text"`
	FielderInvolved *string `gorm:"column:fielder_involved;type:text"`
	FielderRef      *Person `gorm:"foreignKey:FielderInvolved;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Delivery) TableName() string {
	return "deliveries"
}
