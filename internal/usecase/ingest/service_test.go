package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"cricdb/internal/infrastructure/persistence/model"
	"cricdb/internal/infrastructure/persistence/repository"
	"cricdb/internal/infrastructure/persistence/uow"
	"cricdb/internal/ports"
)

func setupStore(t *testing.T) (*repository.MatchRepository, *uow.UnitOfWork) {
	t.Helper()

	// Workers share the file; without a busy timeout concurrent writers
	// fail fast with SQLITE_BUSY.
	dsn := filepath.Join(t.TempDir(), "cricdb.sqlite") + "?_pragma=busy_timeout(10000)"
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
	return repository.NewMatchRepository(db), uow.NewUnitOfWork(db)
}

func setupService(t *testing.T) (*Service, *repository.MatchRepository) {
	t.Helper()
	repo, unit := setupStore(t)
	return NewService(repo, unit), repo
}

// simpleDoc is the two-person, one-delivery document used across tests.
func simpleDoc() []byte {
	return []byte(`{
	  "info": {
	    "registry": {"people": {"A": "id1", "B": "id2"}},
	    "teams": ["T1", "T2"],
	    "toss": {"winner": "T1", "decision": "bat"},
	    "players": {"T1": ["A"], "T2": ["B"]}
	  },
	  "innings": [
	    {
	      "team": "T1",
	      "overs": [
	        {"over": 0, "deliveries": [
	          {"batter": "A", "bowler": "B", "non_striker": "A", "runs": {"batter": 4, "extras": 0, "total": 4}}
	        ]}
	      ]
	    }
	  ]
	}`)
}

func multiDeliveryDoc(count int) []byte {
	deliveries := make([]string, 0, count)
	for i := 0; i < count; i++ {
		deliveries = append(deliveries,
			`{"batter": "A", "bowler": "B", "non_striker": "A", "runs": {"batter": 1, "extras": 0, "total": 1}}`)
	}
	return []byte(`{
	  "info": {"registry": {"people": {"A": "id1", "B": "id2"}}},
	  "innings": [
	    {"team": "T1", "overs": [{"over": 0, "deliveries": [` + strings.Join(deliveries, ",") + `]}]}
	  ]
	}`)
}

func TestIngestSimpleDocument(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	summary := svc.Run(ctx, []Source{BlobSource{ID: "1001", Data: simpleDoc()}}, 1)
	if summary.Succeeded != 1 || summary.Partial != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts.People != 2 {
		t.Fatalf("people count = %d", counts.People)
	}
	if counts.Matches != 1 {
		t.Fatalf("matches count = %d", counts.Matches)
	}
	if counts.Deliveries != 1 {
		t.Fatalf("deliveries count = %d", counts.Deliveries)
	}

	deliveries, err := repo.ListDeliveries(ctx, "1001")
	if err != nil {
		t.Fatalf("ListDeliveries() error = %v", err)
	}
	d := deliveries[0]
	if d.RunsTotal != 4 || d.Balls != 1 || d.Overs != 0 {
		t.Fatalf("delivery = %+v", d)
	}
	if d.Batter != "id1" || d.Bowler != "id2" || d.NonStriker != "id1" {
		t.Fatalf("delivery refs = %+v", d)
	}

	m, err := repo.GetMatch(ctx, "1001")
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if m.Team1 == nil || *m.Team1 != "T1" || m.TossWinner == nil || *m.TossWinner != "T1" {
		t.Fatalf("match = %+v", m)
	}
}

func TestIngestMissingReferencePartial(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	// Second delivery references a batter the registry does not know.
	doc := []byte(`{
	  "info": {"registry": {"people": {"A": "id1", "B": "id2"}}},
	  "innings": [
	    {"team": "T1", "overs": [
	      {"over": 0, "deliveries": [
	        {"batter": "A", "bowler": "B", "non_striker": "A", "runs": {"batter": 1, "extras": 0, "total": 1}},
	        {"batter": "Ghost", "bowler": "B", "non_striker": "A", "runs": {"batter": 0, "extras": 0, "total": 0}},
	        {"batter": "B", "bowler": "A", "non_striker": "B", "runs": {"batter": 2, "extras": 0, "total": 2}}
	      ]}
	    ]}
	  ]
	}`)

	outcome := svc.Ingest(ctx, BlobSource{ID: "2001", Data: doc})
	if outcome.Status != StatusPartial {
		t.Fatalf("status = %s, reason = %s", outcome.Status, outcome.Reason)
	}
	if len(outcome.Skips) != 1 {
		t.Fatalf("skips = %+v", outcome.Skips)
	}
	if outcome.Skips[0].Record != "delivery" || !strings.Contains(outcome.Skips[0].Reason, "Ghost") {
		t.Fatalf("skip = %+v", outcome.Skips[0])
	}

	// Siblings still inserted.
	deliveries, err := repo.ListDeliveries(ctx, "2001")
	if err != nil {
		t.Fatalf("ListDeliveries() error = %v", err)
	}
	if len(deliveries) != 2 {
		t.Fatalf("deliveries len = %d", len(deliveries))
	}
}

func TestIngestDuplicateDocument(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	src := BlobSource{ID: "1001", Data: simpleDoc()}

	first := svc.Ingest(ctx, src)
	if first.Status != StatusSucceeded {
		t.Fatalf("first status = %s, reason = %s", first.Status, first.Reason)
	}

	second := svc.Ingest(ctx, src)
	if second.Status != StatusFailed {
		t.Fatalf("second status = %s", second.Status)
	}
	if !strings.Contains(second.Reason, "already ingested") {
		t.Fatalf("second reason = %q", second.Reason)
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts.Matches != 1 {
		t.Fatalf("matches count = %d", counts.Matches)
	}
	if counts.Deliveries != 1 {
		t.Fatalf("deliveries count = %d", counts.Deliveries)
	}
}

func TestRunIsolatesMalformedDocument(t *testing.T) {
	for _, workers := range []int{1, 2, 4} {
		workers := workers
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			svc, _ := setupService(t)

			sources := make([]Source, 0, 5)
			for i := 0; i < 5; i++ {
				id := fmt.Sprintf("30%02d", i)
				data := simpleDoc()
				if i == 2 {
					data = []byte("{broken")
				}
				sources = append(sources, BlobSource{ID: id, Data: data})
			}

			summary := svc.Run(context.Background(), sources, workers)
			if summary.Succeeded != 4 || summary.Failed != 1 || summary.Partial != 0 {
				t.Fatalf("summary = %+v", summary)
			}
			if len(summary.Failures) != 1 || summary.Failures[0].Source != "3002" {
				t.Fatalf("failures = %+v", summary.Failures)
			}
		})
	}
}

// flakyRepo fails delivery inserts once a threshold is reached, simulating a
// store outage in the middle of the dependent phase.
type flakyRepo struct {
	ports.MatchRepository
	failAfter int
	calls     int
}

func (f *flakyRepo) CreateDelivery(ctx context.Context, delivery ports.Delivery) error {
	f.calls++
	if f.calls > f.failAfter {
		return errors.New("store unavailable")
	}
	return f.MatchRepository.CreateDelivery(ctx, delivery)
}

func TestDependentPhaseRollsBackOnStoreError(t *testing.T) {
	repo, unit := setupStore(t)
	svc := NewService(&flakyRepo{MatchRepository: repo, failAfter: 2}, unit)
	ctx := context.Background()

	outcome := svc.Ingest(ctx, BlobSource{ID: "4001", Data: multiDeliveryDoc(4)})
	if outcome.Status != StatusFailed {
		t.Fatalf("status = %s", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "store unavailable") {
		t.Fatalf("reason = %q", outcome.Reason)
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	// The dependent phase rolled back completely.
	if counts.Deliveries != 0 {
		t.Fatalf("deliveries count = %d, want 0", counts.Deliveries)
	}
	// People and the match row were committed in earlier scopes and stay.
	if counts.People != 2 {
		t.Fatalf("people count = %d, want 2", counts.People)
	}
	if counts.Matches != 1 {
		t.Fatalf("matches count = %d, want 1", counts.Matches)
	}
}

func TestSharedPersonAcrossConcurrentDocuments(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	sources := []Source{
		BlobSource{ID: "5001", Data: simpleDoc()},
		BlobSource{ID: "5002", Data: simpleDoc()},
		BlobSource{ID: "5003", Data: simpleDoc()},
		BlobSource{ID: "5004", Data: simpleDoc()},
	}

	summary := svc.Run(ctx, sources, 4)
	if summary.Succeeded != 4 {
		t.Fatalf("summary = %+v", summary)
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	// id1/id2 appear in all four documents; exactly one row each.
	if counts.People != 2 {
		t.Fatalf("people count = %d, want 2", counts.People)
	}
	if counts.Matches != 4 {
		t.Fatalf("matches count = %d", counts.Matches)
	}
}

func TestReferentialCompletenessAfterMixedRun(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	sources := []Source{
		BlobSource{ID: "6001", Data: simpleDoc()},
		BlobSource{ID: "6002", Data: []byte(`{
		  "info": {"registry": {"people": {"A": "id1", "B": "id2"}}},
		  "innings": [
		    {"team": "T1", "overs": [{"over": 0, "deliveries": [
		      {"batter": "Ghost", "bowler": "B", "non_striker": "A", "runs": {"batter": 0, "extras": 0, "total": 0}}
		    ]}]}
		  ]
		}`)},
	}

	summary := svc.Run(ctx, sources, 2)
	if summary.Succeeded != 1 || summary.Partial != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	// Every persisted dependent row references persons and matches that exist.
	for _, matchID := range []string{"6001", "6002"} {
		deliveries, err := repo.ListDeliveries(ctx, matchID)
		if err != nil {
			t.Fatalf("ListDeliveries(%s) error = %v", matchID, err)
		}
		for _, d := range deliveries {
			for _, personID := range []string{d.Batter, d.Bowler, d.NonStriker} {
				exists, err := repo.PersonExists(ctx, personID)
				if err != nil {
					t.Fatalf("PersonExists(%s) error = %v", personID, err)
				}
				if !exists {
					t.Fatalf("delivery in %s references missing person %q", matchID, personID)
				}
			}
			exists, err := repo.MatchExists(ctx, d.MatchID)
			if err != nil {
				t.Fatalf("MatchExists(%s) error = %v", d.MatchID, err)
			}
			if !exists {
				t.Fatalf("delivery references missing match %q", d.MatchID)
			}
		}
	}
}

func TestRunStopsDispatchingWhenCancelled(t *testing.T) {
	svc, repo := setupService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := svc.Run(ctx, []Source{
		BlobSource{ID: "7001", Data: simpleDoc()},
		BlobSource{ID: "7002", Data: simpleDoc()},
	}, 2)

	if summary.Failed != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, failure := range summary.Failures {
		if !strings.Contains(failure.Reason, "not dispatched") {
			t.Fatalf("failure = %+v", failure)
		}
	}

	counts, err := repo.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts.Matches != 0 {
		t.Fatalf("matches count = %d, want 0", counts.Matches)
	}
}

func TestIngestLogsAwardDiagnostic(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	doc := []byte(`{
	  "info": {
	    "registry": {"people": {"A": "id1"}},
	    "player_of_match": ["A", "Unknown"]
	  },
	  "innings": []
	}`)

	outcome := svc.Ingest(ctx, BlobSource{ID: "8001", Data: doc})
	if outcome.Status != StatusSucceeded {
		t.Fatalf("status = %s, reason = %s", outcome.Status, outcome.Reason)
	}

	awards, err := repo.ListAwards(ctx, "8001")
	if err != nil {
		t.Fatalf("ListAwards() error = %v", err)
	}
	if len(awards) != 1 || awards[0].PersonID != "id1" {
		t.Fatalf("awards = %+v", awards)
	}
}
