package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// GetProfile loads a user's preference profile. Returns
// domain.ErrProfileNotFound for users who have never interacted.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p := domain.NewProfile(userID)

	err := r.pool.QueryRow(ctx,
		`SELECT role_tag_weights, topic_tag_weights, content_type_weights, creator_weights,
		        watch_count, watch_duration_seconds, like_count, favorite_count,
		        comment_count, share_count, updated_at
		 FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&p.RoleTagWeights, &p.TopicTagWeights, &p.ContentTypeWeights, &p.CreatorWeights,
		&p.WatchCount, &p.WatchDurationSeconds, &p.LikeCount, &p.FavoriteCount,
		&p.CommentCount, &p.ShareCount, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile user=%s: %w", userID, err)
	}
	return p, nil
}

// ApplyProfileDelta applies one interaction's reinforcement under a row lock.
// The lazily-created row is locked with SELECT ... FOR UPDATE before the
// read-modify-write, so concurrent interactions for the same user serialize
// instead of losing updates.
func (r *Repository) ApplyProfileDelta(ctx context.Context, userID string, delta domain.ProfileDelta) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin profile update: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_preferences (id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID,
	); err != nil {
		return fmt.Errorf("ensure profile row user=%s: %w", userID, err)
	}

	p := domain.NewProfile(userID)
	err = tx.QueryRow(ctx,
		`SELECT role_tag_weights, topic_tag_weights, content_type_weights, creator_weights,
		        watch_count, watch_duration_seconds, like_count, favorite_count,
		        comment_count, share_count
		 FROM user_preferences WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&p.RoleTagWeights, &p.TopicTagWeights, &p.ContentTypeWeights, &p.CreatorWeights,
		&p.WatchCount, &p.WatchDurationSeconds, &p.LikeCount, &p.FavoriteCount,
		&p.CommentCount, &p.ShareCount)
	if err != nil {
		return fmt.Errorf("lock profile row user=%s: %w", userID, err)
	}

	Apply(p, delta)

	if _, err := tx.Exec(ctx,
		`UPDATE user_preferences
		 SET role_tag_weights = $2, topic_tag_weights = $3,
		     content_type_weights = $4, creator_weights = $5,
		     watch_count = $6, watch_duration_seconds = $7,
		     like_count = $8, favorite_count = $9,
		     comment_count = $10, share_count = $11,
		     updated_at = $12
		 WHERE user_id = $1`,
		userID,
		p.RoleTagWeights, p.TopicTagWeights, p.ContentTypeWeights, p.CreatorWeights,
		p.WatchCount, p.WatchDurationSeconds, p.LikeCount, p.FavoriteCount,
		p.CommentCount, p.ShareCount, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("update profile user=%s: %w", userID, err)
	}

	return tx.Commit(ctx)
}

// Apply folds one delta into a profile in memory. Exported so the profile
// store and in-memory test fakes share the exact same reinforcement rules.
func Apply(p *domain.Profile, delta domain.ProfileDelta) {
	if delta.Increment > 0 {
		for _, id := range delta.RoleTagIDs {
			p.RoleTagWeights[id] += delta.Increment
		}
		for _, id := range delta.TopicTagIDs {
			p.TopicTagWeights[id] += delta.Increment
		}
		if delta.ContentType != "" {
			p.ContentTypeWeights[delta.ContentType] += delta.Increment
		}
		if delta.CreatorID != "" {
			p.CreatorWeights[delta.CreatorID] += delta.Increment
		}
	}

	switch delta.Type {
	case domain.InteractionView, domain.InteractionCompletion:
		p.WatchCount++
		p.WatchDurationSeconds += delta.WatchDurationSeconds
	case domain.InteractionLike:
		p.LikeCount++
	case domain.InteractionFavorite:
		p.FavoriteCount++
	case domain.InteractionComment:
		p.CommentCount++
	case domain.InteractionShare:
		p.ShareCount++
	}
}
