package domain

import "time"

// Profile holds a user's weighted affinities and lifetime interaction
// counters. One per user, created lazily on first interaction. All weights
// are >= 0 and only ever grow; an absent key means weight 0.
type Profile struct {
	UserID             string             `json:"user_id"`
	RoleTagWeights     map[string]float64 `json:"role_tag_weights"`
	TopicTagWeights    map[string]float64 `json:"topic_tag_weights"`
	ContentTypeWeights map[string]float64 `json:"content_type_weights"`
	CreatorWeights     map[string]float64 `json:"creator_weights"`

	WatchCount           int64   `json:"watch_count"`
	WatchDurationSeconds float64 `json:"watch_duration_seconds"`
	LikeCount            int64   `json:"like_count"`
	FavoriteCount        int64   `json:"favorite_count"`
	CommentCount         int64   `json:"comment_count"`
	ShareCount           int64   `json:"share_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile returns the cold-start profile for a user: empty weight maps,
// zero counters.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:             userID,
		RoleTagWeights:     map[string]float64{},
		TopicTagWeights:    map[string]float64{},
		ContentTypeWeights: map[string]float64{},
		CreatorWeights:     map[string]float64{},
	}
}

// TagWeight is the combined affinity for a single tag across both tag
// dimensions. Missing keys contribute 0.
func (p *Profile) TagWeight(tagID string) float64 {
	return p.RoleTagWeights[tagID] + p.TopicTagWeights[tagID]
}
