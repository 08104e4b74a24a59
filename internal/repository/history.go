package repository

import (
	"context"
	"fmt"
	"time"
)

// RecordCompletion upserts the completed-view projection the candidate
// selector reads. Re-watching refreshes the timestamp so the recency window
// keeps excluding the item.
func (r *Repository) RecordCompletion(ctx context.Context, userID, contentID string, watchedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_watch_history (user_id, content_id, watched_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, content_id) DO UPDATE SET watched_at = EXCLUDED.watched_at`,
		userID, contentID, watchedAt,
	)
	if err != nil {
		return fmt.Errorf("record completion user=%s content=%s: %w", userID, contentID, err)
	}
	return nil
}

// RecentCompletions returns the ids of content the user completed on or
// after the cutoff.
func (r *Repository) RecentCompletions(ctx context.Context, userID string, since time.Time) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT content_id FROM user_watch_history
		 WHERE user_id = $1 AND watched_at >= $2`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent completions user=%s: %w", userID, err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		seen[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return seen, nil
}
