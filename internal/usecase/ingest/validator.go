package ingest

import (
	"context"
	"fmt"

	"cricdb/internal/domain/match"
	"cricdb/internal/ports"
)

// refChecker validates person references against the durable store before
// any insert is attempted. Validation happens uniformly before the write,
// never by catching a constraint violation afterwards, so every skip has a
// known reason and no store error taxonomy leaks upward.
//
// Ids confirmed once are cached for the rest of the document; people are
// committed before the dependent phase, so existence never flips back.
type refChecker struct {
	repo  ports.MatchReadRepository
	known map[string]bool
}

func newRefChecker(repo ports.MatchReadRepository) *refChecker {
	return &refChecker{
		repo:  repo,
		known: make(map[string]bool),
	}
}

// check returns a non-empty reason when the reference must cause a skip, or
// an error when the store itself failed.
func (c *refChecker) check(ctx context.Context, field string, ref match.PersonRef) (string, error) {
	if !ref.Resolved() {
		return fmt.Sprintf("%s %q: %v", field, ref.Name, match.ErrReferenceMissing), nil
	}
	return c.checkID(ctx, field, ref.ID)
}

// checkOptional accepts a nil reference as valid.
func (c *refChecker) checkOptional(ctx context.Context, field string, ref *match.PersonRef) (string, error) {
	if ref == nil {
		return "", nil
	}
	return c.check(ctx, field, *ref)
}

func (c *refChecker) checkID(ctx context.Context, field string, personID string) (string, error) {
	if ok, seen := c.known[personID]; seen {
		if !ok {
			return fmt.Sprintf("%s: person %q not in store", field, personID), nil
		}
		return "", nil
	}

	exists, err := c.repo.PersonExists(ctx, personID)
	if err != nil {
		return "", err
	}
	c.known[personID] = exists
	if !exists {
		return fmt.Sprintf("%s: person %q not in store", field, personID), nil
	}
	return "", nil
}

// checkDelivery validates every person reference a delivery carries. The
// first failing field decides the skip reason.
func (c *refChecker) checkDelivery(ctx context.Context, d match.DeliveryDraft) (string, error) {
	prefix := fmt.Sprintf("delivery %d/%d/%d", d.Innings, d.Over, d.Ball)

	for _, ref := range []struct {
		field string
		ref   match.PersonRef
	}{
		{prefix + " batter", d.Batter},
		{prefix + " bowler", d.Bowler},
		{prefix + " non_striker", d.NonStriker},
	} {
		if reason, err := c.check(ctx, ref.field, ref.ref); reason != "" || err != nil {
			return reason, err
		}
	}

	if reason, err := c.checkOptional(ctx, prefix+" player_out", d.PlayerOut); reason != "" || err != nil {
		return reason, err
	}
	return c.checkOptional(ctx, prefix+" fielder_involved", d.FielderInvolved)
}
