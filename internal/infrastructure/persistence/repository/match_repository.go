package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cricdb/internal/errs"
	"cricdb/internal/infrastructure/persistence/model"
	"cricdb/internal/ports"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *MatchRepository) CreatePerson(ctx context.Context, person ports.Person) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	row := model.Person{
		PersonID: person.PersonID,
		Name:     person.Name,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "person_id"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "insert person")
	}
	return result.RowsAffected > 0, nil
}

func (r *MatchRepository) CreateMatch(ctx context.Context, match ports.Match) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Match{
		MatchID:         match.MatchID,
		City:            match.City,
		Gender:          match.Gender,
		MatchType:       match.MatchType,
		MatchTypeNumber: match.MatchTypeNumber,
		Overs:           match.Overs,
		Season:          match.Season,
		TeamType:        match.TeamType,
		Venue:           match.Venue,
		Team1:           match.Team1,
		Team2:           match.Team2,
		TossWinner:      match.TossWinner,
		TossDecision:    match.TossDecision,
		Winner:          match.Winner,
		OutcomeType:     match.OutcomeType,
		OutcomeValue:    match.OutcomeValue,
		BallsPerOver:    match.BallsPerOver,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return errs.Wrap(result.Error, "insert match")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDuplicateMatch
	}
	return nil
}

func (r *MatchRepository) CreateAward(ctx context.Context, award ports.MatchAward) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.MatchAward{
		MatchID:  award.MatchID,
		PersonID: &award.PersonID,
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert match award")
	}
	return nil
}

func (r *MatchRepository) CreateOfficial(ctx context.Context, official ports.Official) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Official{
		MatchID:      official.MatchID,
		PersonID:     &official.PersonID,
		OfficialType: official.OfficialType,
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert official")
	}
	return nil
}

func (r *MatchRepository) CreateTeamPlayer(ctx context.Context, player ports.TeamPlayer) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.TeamPlayer{
		MatchID:  player.MatchID,
		PersonID: &player.PersonID,
		TeamName: player.TeamName,
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert team player")
	}
	return nil
}

func (r *MatchRepository) CreateDelivery(ctx context.Context, delivery ports.Delivery) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Delivery{
		MatchID:         delivery.MatchID,
		Innings:         delivery.Innings,
		Team:            delivery.Team,
		Overs:           delivery.Overs,
		Balls:           delivery.Balls,
		Batter:          &delivery.Batter,
		Bowler:          &delivery.Bowler,
		NonStriker:      &delivery.NonStriker,
		RunsBatter:      delivery.RunsBatter,
		RunsExtras:      delivery.RunsExtras,
		RunsTotal:       delivery.RunsTotal,
		PlayerOut:       delivery.PlayerOut,
		DismissalKind:   delivery.DismissalKind,
		FielderInvolved: delivery.FielderInvolved,
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert delivery")
	}
	return nil
}

func (r *MatchRepository) PersonExists(ctx context.Context, personID string) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.Person{}).
		Where("person_id = ?", personID).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "count people")
	}
	return count > 0, nil
}

func (r *MatchRepository) MatchExists(ctx context.Context, matchID string) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.Match{}).
		Where("match_id = ?", matchID).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "count matches")
	}
	return count > 0, nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, matchID string) (ports.Match, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Match{}, err
	}

	var row model.Match
	if err := db.Where("match_id = ?", matchID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Match{}, ports.ErrMatchNotFound
		}
		return ports.Match{}, errs.Wrap(err, "query match")
	}

	return ports.Match{
		MatchID:         row.MatchID,
		City:            row.City,
		Gender:          row.Gender,
		MatchType:       row.MatchType,
		MatchTypeNumber: row.MatchTypeNumber,
		Overs:           row.Overs,
		Season:          row.Season,
		TeamType:        row.TeamType,
		Venue:           row.Venue,
		Team1:           row.Team1,
		Team2:           row.Team2,
		TossWinner:      row.TossWinner,
		TossDecision:    row.TossDecision,
		Winner:          row.Winner,
		OutcomeType:     row.OutcomeType,
		OutcomeValue:    row.OutcomeValue,
		BallsPerOver:    row.BallsPerOver,
	}, nil
}

func (r *MatchRepository) ListAwards(ctx context.Context, matchID string) ([]ports.MatchAward, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.MatchAward
	if err := db.Where("match_id = ?", matchID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query match awards")
	}

	items := make([]ports.MatchAward, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.MatchAward{
			MatchID:  row.MatchID,
			PersonID: deref(row.PersonID),
		})
	}
	return items, nil
}

func (r *MatchRepository) ListOfficials(ctx context.Context, matchID string) ([]ports.Official, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Official
	if err := db.Where("match_id = ?", matchID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query officials")
	}

	items := make([]ports.Official, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Official{
			MatchID:      row.MatchID,
			PersonID:     deref(row.PersonID),
			OfficialType: row.OfficialType,
		})
	}
	return items, nil
}

func (r *MatchRepository) ListTeamPlayers(ctx context.Context, matchID string) ([]ports.TeamPlayer, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.TeamPlayer
	if err := db.Where("match_id = ?", matchID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query team players")
	}

	items := make([]ports.TeamPlayer, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.TeamPlayer{
			MatchID:  row.MatchID,
			PersonID: deref(row.PersonID),
			TeamName: row.TeamName,
		})
	}
	return items, nil
}

func (r *MatchRepository) ListDeliveries(ctx context.Context, matchID string) ([]ports.Delivery, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Delivery
	if err := db.
		Where("match_id = ?", matchID).
		Order("innings asc, overs asc, balls asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query deliveries")
	}

	items := make([]ports.Delivery, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Delivery{
			MatchID:         row.MatchID,
			Innings:         row.Innings,
			Team:            row.Team,
			Overs:           row.Overs,
			Balls:           row.Balls,
			Batter:          deref(row.Batter),
			Bowler:          deref(row.Bowler),
			NonStriker:      deref(row.NonStriker),
			RunsBatter:      row.RunsBatter,
			RunsExtras:      row.RunsExtras,
			RunsTotal:       row.RunsTotal,
			PlayerOut:       row.PlayerOut,
			DismissalKind:   row.DismissalKind,
			FielderInvolved: row.FielderInvolved,
		})
	}
	return items, nil
}

func (r *MatchRepository) TableCounts(ctx context.Context) (ports.TableCounts, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.TableCounts{}, err
	}

	var counts ports.TableCounts
	for _, c := range []struct {
		model any
		dst   *int64
		name  string
	}{
		{&model.Person{}, &counts.People, "people"},
		{&model.Match{}, &counts.Matches, "matches"},
		{&model.MatchAward{}, &counts.Awards, "match awards"},
		{&model.Official{}, &counts.Officials, "officials"},
		{&model.TeamPlayer{}, &counts.TeamPlayers, "team players"},
		{&model.Delivery{}, &counts.Deliveries, "deliveries"},
	} {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return ports.TableCounts{}, errs.Wrapf(err, "count %s", c.name)
		}
	}
	return counts, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
