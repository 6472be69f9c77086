package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"cricdb/internal/infrastructure/persistence/model"
	"cricdb/internal/ports"
)

func setupMatchRepository(t *testing.T) *MatchRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cricdb.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.Person{},
		&model.Match{},
		&model.MatchAward{},
		&model.Official{},
		&model.TeamPlayer{},
		&model.Delivery{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewMatchRepository(db)
}

func strPtr(s string) *string { return &s }

func TestCreatePersonIsIdempotent(t *testing.T) {
	repo := setupMatchRepository(t)
	ctx := context.Background()

	created, err := repo.CreatePerson(ctx, ports.Person{PersonID: "id1", Name: "A"})
	if err != nil {
		t.Fatalf("CreatePerson() error = %v", err)
	}
	if !created {
		t.Fatal("first CreatePerson() created = false")
	}

	// Same id again, even with a different name: no-op, not an error.
	created, err = repo.CreatePerson(ctx, ports.Person{PersonID: "id1", Name: "A. Other"})
	if err != nil {
		t.Fatalf("second CreatePerson() error = %v", err)
	}
	if created {
		t.Fatal("second CreatePerson() created = true")
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts.People != 1 {
		t.Fatalf("people count = %d", counts.People)
	}
}

func TestCreateMatchRejectsDuplicate(t *testing.T) {
	repo := setupMatchRepository(t)
	ctx := context.Background()

	m := ports.Match{MatchID: "1001", City: strPtr("Pune")}
	if err := repo.CreateMatch(ctx, m); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	if err := repo.CreateMatch(ctx, m); !errors.Is(err, ports.ErrDuplicateMatch) {
		t.Fatalf("second CreateMatch() error = %v, want ErrDuplicateMatch", err)
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts.Matches != 1 {
		t.Fatalf("matches count = %d", counts.Matches)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	repo := setupMatchRepository(t)

	if _, err := repo.GetMatch(context.Background(), "missing"); !errors.Is(err, ports.ErrMatchNotFound) {
		t.Fatalf("GetMatch() error = %v, want ErrMatchNotFound", err)
	}
}

func TestGetMatchRoundTrip(t *testing.T) {
	repo := setupMatchRepository(t)
	ctx := context.Background()

	overs := 50
	in := ports.Match{
		MatchID:      "1001",
		City:         strPtr("Harare"),
		Overs:        &overs,
		Team1:        strPtr("T1"),
		Team2:        strPtr("T2"),
		OutcomeType:  strPtr("wickets"),
		OutcomeValue: strPtr("5"),
	}
	if err := repo.CreateMatch(ctx, in); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}

	out, err := repo.GetMatch(ctx, "1001")
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if out.City == nil || *out.City != "Harare" {
		t.Fatalf("City = %v", out.City)
	}
	if out.Overs == nil || *out.Overs != 50 {
		t.Fatalf("Overs = %v", out.Overs)
	}
	if out.Gender != nil {
		t.Fatalf("Gender = %v, want nil", *out.Gender)
	}
	if out.OutcomeValue == nil || *out.OutcomeValue != "5" {
		t.Fatalf("OutcomeValue = %v", out.OutcomeValue)
	}
}

func TestListDeliveriesOrdered(t *testing.T) {
	repo := setupMatchRepository(t)
	ctx := context.Background()

	for _, id := range []string{"id1", "id2"} {
		if _, err := repo.CreatePerson(ctx, ports.Person{PersonID: id, Name: id}); err != nil {
			t.Fatalf("CreatePerson(%s) error = %v", id, err)
		}
	}
	if err := repo.CreateMatch(ctx, ports.Match{MatchID: "1001"}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}

	// Insert out of order; the listing must come back in play order.
	positions := []struct{ innings, overs, balls int }{
		{2, 0, 1},
		{1, 1, 2},
		{1, 1, 1},
		{1, 0, 3},
	}
	for _, p := range positions {
		if err := repo.CreateDelivery(ctx, ports.Delivery{
			MatchID:    "1001",
			Innings:    p.innings,
			Team:       "T1",
			Overs:      p.overs,
			Balls:      p.balls,
			Batter:     "id1",
			Bowler:     "id2",
			NonStriker: "id1",
			RunsTotal:  1,
		}); err != nil {
			t.Fatalf("CreateDelivery(%v) error = %v", p, err)
		}
	}

	rows, err := repo.ListDeliveries(ctx, "1001")
	if err != nil {
		t.Fatalf("ListDeliveries() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("ListDeliveries() len = %d", len(rows))
	}
	want := []struct{ innings, overs, balls int }{
		{1, 0, 3}, {1, 1, 1}, {1, 1, 2}, {2, 0, 1},
	}
	for i, w := range want {
		if rows[i].Innings != w.innings || rows[i].Overs != w.overs || rows[i].Balls != w.balls {
			t.Fatalf("rows[%d] = %d/%d/%d, want %d/%d/%d",
				i, rows[i].Innings, rows[i].Overs, rows[i].Balls, w.innings, w.overs, w.balls)
		}
	}
}

func TestDependentRowsVisibleThroughReads(t *testing.T) {
	repo := setupMatchRepository(t)
	ctx := context.Background()

	if _, err := repo.CreatePerson(ctx, ports.Person{PersonID: "id1", Name: "A"}); err != nil {
		t.Fatalf("CreatePerson() error = %v", err)
	}
	if err := repo.CreateMatch(ctx, ports.Match{MatchID: "1001"}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	if err := repo.CreateAward(ctx, ports.MatchAward{MatchID: "1001", PersonID: "id1"}); err != nil {
		t.Fatalf("CreateAward() error = %v", err)
	}
	if err := repo.CreateOfficial(ctx, ports.Official{MatchID: "1001", PersonID: "id1", OfficialType: "umpire"}); err != nil {
		t.Fatalf("CreateOfficial() error = %v", err)
	}
	if err := repo.CreateTeamPlayer(ctx, ports.TeamPlayer{MatchID: "1001", PersonID: "id1", TeamName: "T1"}); err != nil {
		t.Fatalf("CreateTeamPlayer() error = %v", err)
	}

	awards, err := repo.ListAwards(ctx, "1001")
	if err != nil {
		t.Fatalf("ListAwards() error = %v", err)
	}
	if len(awards) != 1 || awards[0].PersonID != "id1" {
		t.Fatalf("awards = %+v", awards)
	}

	officials, err := repo.ListOfficials(ctx, "1001")
	if err != nil {
		t.Fatalf("ListOfficials() error = %v", err)
	}
	if len(officials) != 1 || officials[0].OfficialType != "umpire" {
		t.Fatalf("officials = %+v", officials)
	}

	players, err := repo.ListTeamPlayers(ctx, "1001")
	if err != nil {
		t.Fatalf("ListTeamPlayers() error = %v", err)
	}
	if len(players) != 1 || players[0].TeamName != "T1" {
		t.Fatalf("players = %+v", players)
	}
}

func TestExistenceChecks(t *testing.T) {
	repo := setupMatchRepository(t)
	ctx := context.Background()

	if _, err := repo.CreatePerson(ctx, ports.Person{PersonID: "id1", Name: "A"}); err != nil {
		t.Fatalf("CreatePerson() error = %v", err)
	}
	if err := repo.CreateMatch(ctx, ports.Match{MatchID: "1001"}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}

	for _, tc := range []struct {
		name string
		got  func() (bool, error)
		want bool
	}{
		{"existing person", func() (bool, error) { return repo.PersonExists(ctx, "id1") }, true},
		{"missing person", func() (bool, error) { return repo.PersonExists(ctx, "nope") }, false},
		{"existing match", func() (bool, error) { return repo.MatchExists(ctx, "1001") }, true},
		{"missing match", func() (bool, error) { return repo.MatchExists(ctx, "9999") }, false},
	} {
		got, err := tc.got()
		if err != nil {
			t.Fatalf("%s: error = %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
