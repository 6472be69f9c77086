package model

type Match struct {
	MatchID         string  `gorm:"column:match_id;type:text;primaryKey"`
	City            *string `gorm:"column:city;type:text"`
	Gender          *string `gorm:"column:gender;type:text"`
	MatchType       *string `gorm:"column:match_type;type:text"`
	MatchTypeNumber *int    `gorm:"column:match_type_number"`
	Overs           *int    `gorm:"column:overs"`
	Season          *string `gorm:"column:season;type:text"`
	TeamType        *string `gorm:"column:team_type;type:text"`
	Venue           *string `gorm:"column:venue;type:text"`
	Team1           *string `gorm:"column:team1;type:text"`
	Team2           *string `gorm:"column:team2;type:text"`
	TossWinner      *string `gorm:"column:toss_winner;type:text"`
	TossDecision    *string `gorm:"column:toss_decision;type:text"`
	Winner          *string `gorm:"column:winner;type:text"`
	OutcomeType     *string `gorm:"column:outcome_type;type:text"`
	OutcomeValue    *string `gorm:"column:outcome_value;type:text"`
	BallsPerOver    *int    `gorm:"column:balls_per_over"`
}

func (Match) TableName() string {
	return "matches"
}
