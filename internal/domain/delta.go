package domain

// ProfileDelta is one interaction translated into profile mutations. The
// profile store applies it atomically: weight increments are all >= 0
// (monotone reinforcement, there is no negative feedback signal) and exactly
// one lifetime counter advances per delta.
type ProfileDelta struct {
	RoleTagIDs  []string
	TopicTagIDs []string
	ContentType string
	CreatorID   string

	// Increment is base_increment(type) scaled by watch completion for views.
	Increment float64

	Type                 InteractionType
	WatchDurationSeconds float64
}
