package domain

// InteractionType enumerates the tracked behavioral signals.
type InteractionType string

const (
	InteractionView       InteractionType = "view"
	InteractionCompletion InteractionType = "completion"
	InteractionLike       InteractionType = "like"
	InteractionFavorite   InteractionType = "favorite"
	InteractionComment    InteractionType = "comment"
	InteractionShare      InteractionType = "share"
)

// ValidInteractionType reports whether t is one of the tracked signals.
func ValidInteractionType(t InteractionType) bool {
	switch t {
	case InteractionView, InteractionCompletion, InteractionLike,
		InteractionFavorite, InteractionComment, InteractionShare:
		return true
	}
	return false
}

// InteractionEvent is the ephemeral input to the signal recorder. The
// interaction log owns persistence; the engine only consumes events to
// update profile weights. Delivery is not idempotent: recording the same
// logical event twice doubles its reinforcement.
type InteractionEvent struct {
	UserID               string          `json:"user_id"`
	ContentID            string          `json:"content_id"`
	Type                 InteractionType `json:"type"`
	WatchDurationSeconds float64         `json:"watch_duration_seconds,omitempty"`
}
