package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/fr0stylo/sponsorboard/internal/db/queries"
)

// ErrLevelReferenced is returned when a level still has sponsors.
var ErrLevelReferenced = errors.New("sponsor level is referenced")

// RenameSponsorLevel updates a level name.
func (c *Database) RenameSponsorLevel(ctx context.Context, id int64, name string) (queries.SponsorLevel, error) {
	return c.Queries.UpdateSponsorLevel(ctx, queries.UpdateSponsorLevelParams{Name: name, ID: id})
}

// DeleteUnusedSponsorLevel removes a level only when no sponsor references it.
// The count and the delete share one transaction.
func (c *Database) DeleteUnusedSponsorLevel(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := c.WithinTx(ctx, func(q *queries.Queries) error {
		count, err := q.CountSponsorsByLevel(ctx, id)
		if err != nil {
			return fmt.Errorf("count sponsors: %w", err)
		}
		if count > 0 {
			return ErrLevelReferenced
		}
		affected, err = q.DeleteSponsorLevel(ctx, id)
		return err
	})
	return affected, err
}
