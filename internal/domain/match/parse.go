package match

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Dismissal kinds where the recorded fielder is an artifact of scoring, not
// a credited fielder. The fielder reference is suppressed for these.
var fielderlessDismissals = map[string]bool{
	"run out":      true,
	"retired hurt": true,
}

// Bundle is the flat, typed output of parsing one document. Nothing in it
// has touched the store yet.
type Bundle struct {
	MatchID    string
	People     []PersonDraft
	Match      MatchDraft
	Awards     []string
	Officials  []OfficialDraft
	Players    []PlayerDraft
	Deliveries []DeliveryDraft

	// Diagnostics collects non-fatal findings (for example award names the
	// registry fragment cannot resolve). The caller decides how to log them.
	Diagnostics []string
}

type PersonDraft struct {
	ID   string
	Name string
}

type MatchDraft struct {
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

type OfficialDraft struct {
	Ref  PersonRef
	Role string
}

type PlayerDraft struct {
	Ref  PersonRef
	Team string
}

type DeliveryDraft struct {
	Innings         int
	Team            string
	Over            int
	Ball            int
	Batter          PersonRef
	Bowler          PersonRef
	NonStriker      PersonRef
	RunsBatter      int
	RunsExtras      int
	RunsTotal       int
	PlayerOut       *PersonRef
	DismissalKind   *string
	FielderInvolved *PersonRef
}

// Parse decodes one raw document and flattens it into candidate records.
// The registry fragment is extracted first; every person reference in the
// same document resolves through it. Parse performs no I/O.
func Parse(matchID string, raw []byte) (*Bundle, error) {
	if matchID == "" {
		return nil, fmt.Errorf("%w: empty match id", ErrMalformedDocument)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if len(doc.Info.Registry.People) == 0 {
		return nil, fmt.Errorf("%w: missing registry fragment", ErrMalformedDocument)
	}

	registry := doc.Info.Registry.People

	b := &Bundle{
		MatchID: matchID,
		Match:   parseMatchDraft(doc.Info),
	}

	b.People = peopleDrafts(registry)
	b.Awards = parseAwards(b, doc.Info.PlayerOfMatch, registry)
	b.Officials = parseOfficials(doc.Info.Officials, registry)
	b.Players = parsePlayers(doc.Info.Players, registry)
	b.Deliveries = parseDeliveries(doc.Innings, registry)

	return b, nil
}

func peopleDrafts(registry Registry) []PersonDraft {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	people := make([]PersonDraft, 0, len(names))
	for _, name := range names {
		people = append(people, PersonDraft{ID: registry[name], Name: name})
	}
	return people
}

func parseMatchDraft(info infoSection) MatchDraft {
	draft := MatchDraft{
		City:            info.City,
		Gender:          info.Gender,
		MatchType:       info.MatchType,
		MatchTypeNumber: info.MatchTypeNumber,
		Overs:           info.Overs,
		Season:          info.Season.stringPtr(),
		TeamType:        info.TeamType,
		Venue:           info.Venue,
		BallsPerOver:    info.BallsPerOver,
	}

	if len(info.Teams) > 0 {
		draft.Team1 = &info.Teams[0]
	}
	if len(info.Teams) > 1 {
		draft.Team2 = &info.Teams[1]
	}

	if info.Toss != nil {
		draft.TossWinner = info.Toss.Winner
		draft.TossDecision = info.Toss.Decision
	}

	if info.Outcome != nil {
		draft.Winner = info.Outcome.Winner
		draft.OutcomeType, draft.OutcomeValue = normalizeOutcome(*info.Outcome)
	}

	return draft
}

// normalizeOutcome reduces the outcome section to a (kind, value) pair. A
// keyed margin ("by N wickets/runs") yields kind=key, value=margin; a plain
// result string ("tie", "no result") yields kind=result, value=nil.
func normalizeOutcome(outcome outcomeSection) (*string, *string) {
	if len(outcome.By) > 0 {
		kind := marginKey(outcome.By)
		value := outcome.By[kind].String()
		return &kind, &value
	}
	if outcome.Result != nil {
		return outcome.Result, nil
	}
	return nil, nil
}

// marginKey picks the margin to report when the outcome carries several.
// "won by an innings and 20 runs" arrives as {innings: 1, runs: 20}; the
// runs/wickets key is the meaningful margin.
func marginKey(by map[string]json.Number) string {
	for _, preferred := range []string{"wickets", "runs"} {
		if _, ok := by[preferred]; ok {
			return preferred
		}
	}

	keys := make([]string, 0, len(by))
	for k := range by {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func parseAwards(b *Bundle, names []string, registry Registry) []string {
	awards := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := registry.Resolve(name)
		if !ok {
			b.Diagnostics = append(b.Diagnostics, fmt.Sprintf("player_of_match %q: %v", name, ErrReferenceMissing))
			continue
		}
		awards = append(awards, id)
	}
	return awards
}

func parseOfficials(officials map[string][]string, registry Registry) []OfficialDraft {
	roles := make([]string, 0, len(officials))
	for role := range officials {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var drafts []OfficialDraft
	for _, role := range roles {
		for _, name := range officials[role] {
			drafts = append(drafts, OfficialDraft{Ref: registry.Ref(name), Role: role})
		}
	}
	return drafts
}

func parsePlayers(players map[string][]string, registry Registry) []PlayerDraft {
	teams := make([]string, 0, len(players))
	for team := range players {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var drafts []PlayerDraft
	for _, team := range teams {
		for _, name := range players[team] {
			drafts = append(drafts, PlayerDraft{Ref: registry.Ref(name), Team: team})
		}
	}
	return drafts
}

func parseDeliveries(innings []inning, registry Registry) []DeliveryDraft {
	var drafts []DeliveryDraft
	for inningsIdx, inn := range innings {
		for _, ov := range inn.Overs {
			for ballIdx, del := range ov.Deliveries {
				draft := DeliveryDraft{
					Innings:    inningsIdx + 1,
					Team:       inn.Team,
					Over:       ov.Over,
					Ball:       ballIdx + 1,
					Batter:     registry.Ref(del.Batter),
					Bowler:     registry.Ref(del.Bowler),
					NonStriker: registry.Ref(del.NonStriker),
					RunsBatter: del.Runs.Batter,
					RunsExtras: del.Runs.Extras,
					RunsTotal:  del.Runs.Total,
				}

				if len(del.Wickets) > 0 {
					w := del.Wickets[0]
					if w.PlayerOut != "" {
						out := registry.Ref(w.PlayerOut)
						draft.PlayerOut = &out
					}
					if w.Kind != "" {
						kind := w.Kind
						draft.DismissalKind = &kind
					}
					if w.FielderInvolved != nil && !fielderlessDismissals[w.Kind] {
						fielder := registry.Ref(*w.FielderInvolved)
						draft.FielderInvolved = &fielder
					}
				}

				drafts = append(drafts, draft)
			}
		}
	}
	return drafts
}
