package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// GetPublishedContent returns the full pool of published content with tags
// aggregated, excluding the given creator's own uploads when excludeCreator
// is non-empty. Ordering is left to the ranker.
func (r *Repository) GetPublishedContent(ctx context.Context, excludeCreator string) ([]domain.Content, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.status, c.creator_id, c.content_type, c.published_at,
		        c.view_count, c.like_count, c.favorite_count, c.comment_count, c.share_count,
		        c.is_featured, c.featured_priority,
		        COALESCE(array_agg(ct.tag_id ORDER BY ct.tag_id)
		                 FILTER (WHERE ct.tag_id IS NOT NULL), '{}') AS tag_ids
		 FROM content c
		 LEFT JOIN content_tags ct ON ct.content_id = c.id
		 WHERE c.status = $1 AND ($2 = '' OR c.creator_id <> $2)
		 GROUP BY c.id`,
		domain.StatusPublished, excludeCreator,
	)
	if err != nil {
		return nil, fmt.Errorf("query published content: %w", err)
	}
	defer rows.Close()

	var items []domain.Content
	for rows.Next() {
		var c domain.Content
		if err := rows.Scan(&c.ID, &c.Status, &c.CreatorID, &c.ContentType, &c.PublishedAt,
			&c.ViewCount, &c.LikeCount, &c.FavoriteCount, &c.CommentCount, &c.ShareCount,
			&c.IsFeatured, &c.FeaturedPriority, &c.TagIDs); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}
	return items, nil
}

// GetContentDimensions resolves a content id to the profile dimensions an
// interaction with it reinforces. Returns domain.ErrContentNotFound when the
// content has vanished from the catalog.
func (r *Repository) GetContentDimensions(ctx context.Context, contentID string) (*domain.ContentDimensions, error) {
	d := &domain.ContentDimensions{}

	err := r.pool.QueryRow(ctx,
		`SELECT creator_id, content_type FROM content WHERE id = $1`,
		contentID,
	).Scan(&d.CreatorID, &d.ContentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("query content id=%s: %w", contentID, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.category
		 FROM tags t
		 JOIN content_tags ct ON ct.tag_id = t.id
		 WHERE ct.content_id = $1
		 ORDER BY t.id`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query content tags id=%s: %w", contentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("scan content tag: %w", err)
		}
		if category == "role" {
			d.RoleTagIDs = append(d.RoleTagIDs, id)
		} else {
			d.TopicTagIDs = append(d.TopicTagIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content tags: %w", err)
	}
	return d, nil
}
