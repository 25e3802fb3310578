package directory

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats summarizes the directory for the admin dashboard.
type Stats struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	Emergency   int64            `json:"emergency"`
	StatesCount int64            `json:"states_count"`
}

// StatsRepository aggregates directory counts. It runs on database/sql so
// the dashboard can share a plain connection pool with reporting jobs.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats returns record counts by verification status plus emergency and
// state coverage.
func (r *StatsRepository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByStatus: map[string]int64{}}

	rows, err := r.db.QueryContext(ctx,
		`SELECT verification_status, COUNT(*) FROM clinics GROUP BY verification_status`)
	if err != nil {
		return nil, fmt.Errorf("directory stats: count by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("directory stats: scan status count: %w", err)
		}
		stats.ByStatus[status] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory stats: count by status: %w", err)
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clinics WHERE emergency`).Scan(&stats.Emergency); err != nil {
		return nil, fmt.Errorf("directory stats: count emergency: %w", err)
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT state) FROM clinics WHERE verification_status <> 'archived'`).Scan(&stats.StatesCount); err != nil {
		return nil, fmt.Errorf("directory stats: count states: %w", err)
	}

	return stats, nil
}
