package domain

import "time"

const StatusPublished = "published"

// Content is the read-only ranking view of a catalog item. The catalog owns
// the record; the engine treats it as immutable for one scoring pass.
type Content struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	CreatorID        string    `json:"creator_id"`
	ContentType      string    `json:"content_type"`
	TagIDs           []string  `json:"tag_ids"`
	PublishedAt      time.Time `json:"published_at"`
	ViewCount        int64     `json:"view_count"`
	LikeCount        int64     `json:"like_count"`
	FavoriteCount    int64     `json:"favorite_count"`
	CommentCount     int64     `json:"comment_count"`
	ShareCount       int64     `json:"share_count"`
	IsFeatured       bool      `json:"is_featured"`
	FeaturedPriority int       `json:"featured_priority"`
}

// ContentDimensions is what the signal recorder needs to know about a piece
// of content: which profile dimensions an interaction with it reinforces.
// Tags the catalog has not categorized count as topic tags so they still
// reinforce.
type ContentDimensions struct {
	CreatorID   string
	ContentType string
	RoleTagIDs  []string
	TopicTagIDs []string
}
