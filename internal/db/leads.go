package db

import (
	"context"
	"fmt"

	"github.com/arnav/rapidreach/internal/types"
)

// UpdateLeadStatus moves a lead to a new status, inserting the row if
// the lead was never recorded. Called with LeadStatusContacted after a
// pipeline run completes.
func (db *DB) UpdateLeadStatus(ctx context.Context, placeID string, status types.LeadStatus) error {
	if placeID == "" {
		return fmt.Errorf("place id is required")
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO leads (place_id, status, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (place_id) DO UPDATE SET status = $2, updated_at = NOW()`,
		placeID, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update lead %s: %w", placeID, err)
	}
	return nil
}
