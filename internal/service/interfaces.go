package service

import (
	"context"
	"time"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// The service depends on narrow interfaces rather than the concrete
// repository so the ranking flow is testable without Postgres.
// *repository.Repository satisfies all of them.

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	ApplyProfileDelta(ctx context.Context, userID string, delta domain.ProfileDelta) error
}

type ContentCatalog interface {
	GetPublishedContent(ctx context.Context, excludeCreator string) ([]domain.Content, error)
	GetContentDimensions(ctx context.Context, contentID string) (*domain.ContentDimensions, error)
}

type WatchHistory interface {
	RecordCompletion(ctx context.Context, userID, contentID string, watchedAt time.Time) error
	RecentCompletions(ctx context.Context, userID string, since time.Time) (map[string]struct{}, error)
}

type UserStore interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	GetUserIDsPaginated(ctx context.Context, page, limit int) ([]string, error)
	CountUsers(ctx context.Context) (int, error)
}
