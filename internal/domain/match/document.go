package match

import (
	"bytes"
	"encoding/json"
)

// Wire types for the nested match document. Field names follow the source
// format; everything optional decodes to nil rather than a zero sentinel.

type document struct {
	Info    infoSection `json:"info"`
	Innings []inning    `json:"innings"`
}

type infoSection struct {
	Registry        registrySection     `json:"registry"`
	City            *string             `json:"city"`
	Gender          *string             `json:"gender"`
	MatchType       *string             `json:"match_type"`
	MatchTypeNumber *int                `json:"match_type_number"`
	Overs           *int                `json:"overs"`
	Season          *looseString        `json:"season"`
	TeamType        *string             `json:"team_type"`
	Venue           *string             `json:"venue"`
	Teams           []string            `json:"teams"`
	Toss            *tossSection        `json:"toss"`
	Outcome         *outcomeSection     `json:"outcome"`
	PlayerOfMatch   []string            `json:"player_of_match"`
	Officials       map[string][]string `json:"officials"`
	Players         map[string][]string `json:"players"`
	BallsPerOver    *int                `json:"balls_per_over"`
}

type registrySection struct {
	People Registry `json:"people"`
}

type tossSection struct {
	Winner   *string `json:"winner"`
	Decision *string `json:"decision"`
}

type outcomeSection struct {
	Winner *string                `json:"winner"`
	By     map[string]json.Number `json:"by"`
	Result *string                `json:"result"`
}

type inning struct {
	Team  string `json:"team"`
	Overs []over `json:"overs"`
}

type over struct {
	Over       int            `json:"over"`
	Deliveries []deliveryEntry `json:"deliveries"`
}

type deliveryEntry struct {
	Batter     string   `json:"batter"`
	Bowler     string   `json:"bowler"`
	NonStriker string   `json:"non_striker"`
	Runs       runs     `json:"runs"`
	Wickets    []wicket `json:"wickets"`
}

type runs struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

type wicket struct {
	PlayerOut       string  `json:"player_out"`
	Kind            string  `json:"kind"`
	FielderInvolved *string `json:"fielder_involved"`
}

// looseString accepts both a JSON string and a JSON number. Seasons show up
// as "2013/14" in some corpora and as bare 2014 in others.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

func (s *looseString) stringPtr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
