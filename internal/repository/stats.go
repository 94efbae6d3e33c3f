package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IndexStats summarizes the size of the message index.
type IndexStats struct {
	TotalChats    int
	TotalUsers    int
	TotalMessages int
	TodayMessages int
}

// StatsRepository computes aggregate counts over the index tables.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// GetStats returns current index statistics.
func (r *StatsRepository) GetStats(ctx context.Context) (*IndexStats, error) {
	var stats IndexStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tg_chats),
			(SELECT COUNT(*) FROM tg_users),
			(SELECT COUNT(*) FROM tg_messages),
			(SELECT COUNT(*) FROM tg_messages WHERE date >= date_trunc('day', NOW()))
	`).Scan(&stats.TotalChats, &stats.TotalUsers, &stats.TotalMessages, &stats.TodayMessages)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &stats, nil
}
