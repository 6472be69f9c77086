package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cricdb/internal/bootstrap/logging"
	"cricdb/internal/domain/match"
	"cricdb/internal/errs"
	"cricdb/internal/ports"
)

// Service drives the per-document pipeline (parse, validate, write) and the
// batch orchestration over a bounded worker pool.
type Service struct {
	repo ports.MatchRepository
	uow  ports.UnitOfWork
}

func NewService(repo ports.MatchRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
	}
}

// Run dispatches every source to the pipeline on a pool of at most workers
// goroutines and aggregates the per-document outcomes. Ordering across
// documents is not guaranteed; one document's failure never affects another.
//
// Cancelling ctx stops dispatching new documents but never interrupts the
// ones already in flight.
func (s *Service) Run(ctx context.Context, sources []Source, workers int) Summary {
	if workers < 1 {
		workers = 1
	}

	runCtx := logging.WithAttrs(ctx, slog.String("run_id", uuid.NewString()))
	logging.Info(runCtx, "ingest run started",
		slog.Int("documents", len(sources)),
		slog.Int("workers", workers),
	)

	var (
		mu      sync.Mutex
		summary Summary
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, src := range sources {
		if err := runCtx.Err(); err != nil {
			mu.Lock()
			summary.add(Outcome{
				Source: src.Name(),
				Status: StatusFailed,
				Reason: "not dispatched: " + err.Error(),
			})
			mu.Unlock()
			continue
		}

		src := src
		g.Go(func() error {
			// In-flight documents run to a terminal outcome even after
			// shutdown is requested.
			outcome := s.Ingest(context.WithoutCancel(runCtx), src)

			mu.Lock()
			summary.add(outcome)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; outcomes carry the failures.
	_ = g.Wait()

	logging.Info(runCtx, "ingest run finished",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("partial", summary.Partial),
		slog.Int("failed", summary.Failed),
	)
	return summary
}

// Ingest processes one document start to finish and returns its outcome.
// Phases, in order:
//
//  1. people: idempotent creates, committed immediately so concurrent
//     documents sharing a person are safe without cross-worker locking;
//  2. match row: insert, with a duplicate id reported as a skip;
//  3. dependents: awards, officials, team players and deliveries inside one
//     transaction; validation failures skip the record, a store failure
//     rolls the whole phase back.
//
// Phases 1 and 2 are deliberately outside the dependent transaction: people
// must be visible across documents at once, and a half-ingested document
// keeps its primary row so a re-run is detectable.
func (s *Service) Ingest(ctx context.Context, src Source) Outcome {
	logCtx := logging.WithAttrs(ctx, slog.String("source", src.Name()))

	raw, err := readSource(src)
	if err != nil {
		return s.failed(logCtx, src.Name(), errs.Wrap(err, "read source"))
	}

	bundle, err := match.Parse(src.Name(), raw)
	if err != nil {
		return s.failed(logCtx, src.Name(), errs.Wrap(err, "parse document"))
	}
	for _, diag := range bundle.Diagnostics {
		logging.Warn(logCtx, "parser diagnostic", slog.String("detail", diag))
	}

	if err := s.writePeople(logCtx, bundle); err != nil {
		return s.failed(logCtx, src.Name(), errs.Wrap(err, "person phase"))
	}

	if err := s.repo.CreateMatch(logCtx, matchRecord(bundle)); err != nil {
		if errors.Is(err, ports.ErrDuplicateMatch) {
			return s.failed(logCtx, src.Name(), errs.Wrap(err, "duplicate document"))
		}
		return s.failed(logCtx, src.Name(), errs.Wrap(err, "match phase"))
	}

	skips, err := s.writeDependents(logCtx, bundle)
	if err != nil {
		return s.failed(logCtx, src.Name(), errs.Wrap(err, "dependent phase rolled back"))
	}

	if len(skips) > 0 {
		for _, skip := range skips {
			logging.Warn(logCtx, "record skipped",
				slog.String("record", skip.Record),
				slog.String("reason", skip.Reason),
			)
		}
		return Outcome{Source: src.Name(), Status: StatusPartial, Skips: skips}
	}

	logging.Info(logCtx, "document ingested",
		slog.Int("people", len(bundle.People)),
		slog.Int("deliveries", len(bundle.Deliveries)),
	)
	return Outcome{Source: src.Name(), Status: StatusSucceeded}
}

// writePeople is the shared-entity phase. Each create commits on its own;
// an id that already exists is success, not an integrity error.
func (s *Service) writePeople(ctx context.Context, bundle *match.Bundle) error {
	for _, person := range bundle.People {
		if _, err := s.repo.CreatePerson(ctx, ports.Person{
			PersonID: person.ID,
			Name:     person.Name,
		}); err != nil {
			return err
		}
	}
	return nil
}

// writeDependents runs the all-or-nothing phase. A returned error means the
// transaction rolled back; returned skips are validation rejections that do
// not abort the document.
func (s *Service) writeDependents(ctx context.Context, bundle *match.Bundle) ([]Skip, error) {
	var skips []Skip

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		checker := newRefChecker(s.repo)

		for _, personID := range bundle.Awards {
			reason, err := checker.checkID(txCtx, "match award", personID)
			if err != nil {
				return err
			}
			if reason != "" {
				skips = append(skips, Skip{Record: "match_award", Reason: reason})
				continue
			}
			if err := s.repo.CreateAward(txCtx, ports.MatchAward{
				MatchID:  bundle.MatchID,
				PersonID: personID,
			}); err != nil {
				return err
			}
		}

		for _, official := range bundle.Officials {
			reason, err := checker.check(txCtx, "official "+official.Role, official.Ref)
			if err != nil {
				return err
			}
			if reason != "" {
				skips = append(skips, Skip{Record: "official", Reason: reason})
				continue
			}
			if err := s.repo.CreateOfficial(txCtx, ports.Official{
				MatchID:      bundle.MatchID,
				PersonID:     official.Ref.ID,
				OfficialType: official.Role,
			}); err != nil {
				return err
			}
		}

		for _, player := range bundle.Players {
			reason, err := checker.check(txCtx, "player "+player.Team, player.Ref)
			if err != nil {
				return err
			}
			if reason != "" {
				skips = append(skips, Skip{Record: "team_player", Reason: reason})
				continue
			}
			if err := s.repo.CreateTeamPlayer(txCtx, ports.TeamPlayer{
				MatchID:  bundle.MatchID,
				PersonID: player.Ref.ID,
				TeamName: player.Team,
			}); err != nil {
				return err
			}
		}

		// Parse order is (innings, over, ball); keeping it makes partial
		// runs diagnosable.
		for _, delivery := range bundle.Deliveries {
			reason, err := checker.checkDelivery(txCtx, delivery)
			if err != nil {
				return err
			}
			if reason != "" {
				skips = append(skips, Skip{Record: "delivery", Reason: reason})
				continue
			}
			if err := s.repo.CreateDelivery(txCtx, deliveryRecord(bundle.MatchID, delivery)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return skips, nil
}

func (s *Service) failed(ctx context.Context, source string, err error) Outcome {
	logging.Error(ctx, "document failed", slog.Any("err", errs.Loggable(err)))
	return Outcome{
		Source: source,
		Status: StatusFailed,
		Reason: err.Error(),
	}
}

func matchRecord(bundle *match.Bundle) ports.Match {
	draft := bundle.Match
	return ports.Match{
		MatchID:         bundle.MatchID,
		City:            draft.City,
		Gender:          draft.Gender,
		MatchType:       draft.MatchType,
		MatchTypeNumber: draft.MatchTypeNumber,
		Overs:           draft.Overs,
		Season:          draft.Season,
		TeamType:        draft.TeamType,
		Venue:           draft.Venue,
		Team1:           draft.Team1,
		Team2:           draft.Team2,
		TossWinner:      draft.TossWinner,
		TossDecision:    draft.TossDecision,
		Winner:          draft.Winner,
		OutcomeType:     draft.OutcomeType,
		OutcomeValue:    draft.OutcomeValue,
		BallsPerOver:    draft.BallsPerOver,
	}
}

func deliveryRecord(matchID string, d match.DeliveryDraft) ports.Delivery {
	record := ports.Delivery{
		MatchID:    matchID,
		Innings:    d.Innings,
		Team:       d.Team,
		Overs:      d.Over,
		Balls:      d.Ball,
		Batter:     d.Batter.ID,
		Bowler:     d.Bowler.ID,
		NonStriker: d.NonStriker.ID,
		RunsBatter: d.RunsBatter,
		RunsExtras: d.RunsExtras,
		RunsTotal:  d.RunsTotal,
	}
	if d.PlayerOut != nil {
		record.PlayerOut = &d.PlayerOut.ID
	}
	record.DismissalKind = d.DismissalKind
	if d.FielderInvolved != nil {
		record.FielderInvolved = &d.FielderInvolved.ID
	}
	return record
}

func readSource(src Source) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}
