// internal/repository/stats_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StatsRepository answers reporting queries with raw SQL over sqlx; the
// CRUD paths stay on the ORM.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// StatusCount is one row of the per-status task breakdown.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// CountByStatus returns the number of tasks per status for one user.
// Statuses with no tasks are absent from the result.
func (r *StatsRepository) CountByStatus(ctx context.Context, userID uint) ([]StatusCount, error) {
	const query = `
		SELECT status, COUNT(*) AS count
		FROM tasks
		WHERE user_id = ?
		GROUP BY status
		ORDER BY status`

	var counts []StatusCount
	if err := r.db.SelectContext(ctx, &counts, r.db.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	return counts, nil
}
