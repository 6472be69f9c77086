package ports

import (
	"context"
	"errors"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrDuplicateMatch = errors.New("match already ingested")
)

// Person is the shared registry entity. PersonID is globally unique and
// stable; Name is descriptive only.
type Person struct {
	PersonID string
	Name     string
}

// Match is the primary record for one ingested document. Optional fields are
// pointers; absence is nil, never a sentinel string.
type Match struct {
	MatchID         string
	City            *string
	Gender          *string
	MatchType       *string
	MatchTypeNumber *int
	Overs           *int
	Season          *string
	TeamType        *string
	Venue           *string
	Team1           *string
	Team2           *string
	TossWinner      *string
	TossDecision    *string
	Winner          *string
	OutcomeType     *string
	OutcomeValue    *string
	BallsPerOver    *int
}

// MatchAward links a match to one player-of-match person.
type MatchAward struct {
	MatchID  string
	PersonID string
}

type Official struct {
	MatchID      string
	PersonID     string
	OfficialType string
}

type TeamPlayer struct {
	MatchID  string
	PersonID string
	TeamName string
}

// Delivery is one ball. Ball is 1-based within its over. PlayerOut,
// DismissalKind and FielderInvolved are set only when a wicket fell.
type Delivery struct {
	MatchID         string
	Innings         int
	Team            string
	Overs           int
	Balls           int
	Batter          string
	Bowler          string
	NonStriker      string
	RunsBatter      int
	RunsExtras      int
	RunsTotal       int
	PlayerOut       *string
	DismissalKind   *string
	FielderInvolved *string
}

// TableCounts is a read-only snapshot of row counts per table.
type TableCounts struct {
	People      int64
	Matches     int64
	Awards      int64
	Officials   int64
	TeamPlayers int64
	Deliveries  int64
}

type MatchReadRepository interface {
	PersonExists(ctx context.Context, personID string) (bool, error)
	MatchExists(ctx context.Context, matchID string) (bool, error)
	GetMatch(ctx context.Context, matchID string) (Match, error)
	ListAwards(ctx context.Context, matchID string) ([]MatchAward, error)
	ListOfficials(ctx context.Context, matchID string) ([]Official, error)
	ListTeamPlayers(ctx context.Context, matchID string) ([]TeamPlayer, error)
	ListDeliveries(ctx context.Context, matchID string) ([]Delivery, error)
	TableCounts(ctx context.Context) (TableCounts, error)
}

type MatchRepository interface {
	MatchReadRepository

	// CreatePerson is idempotent: a second create with the same PersonID is a
	// no-op reported as created=false, never an error.
	CreatePerson(ctx context.Context, person Person) (created bool, err error)

	// CreateMatch returns ErrDuplicateMatch when the match id already exists.
	CreateMatch(ctx context.Context, match Match) error

	CreateAward(ctx context.Context, award MatchAward) error
	CreateOfficial(ctx context.Context, official Official) error
	CreateTeamPlayer(ctx context.Context, player TeamPlayer) error
	CreateDelivery(ctx context.Context, delivery Delivery) error
}
