package cache

import (
	"context"
	"fmt"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// Key identifies one cached ranking page. Caching per (user, page, size)
// keeps entries small instead of storing one unbounded list per user.
type Key struct {
	UserID   string
	Page     int
	PageSize int
}

func (k Key) String() string {
	return fmt.Sprintf("rec:user:%s:page:%d:size:%d", k.UserID, k.Page, k.PageSize)
}

// Cache stores computed ranking pages with a TTL. Implementations must treat
// expired entries as absent. Errors from a cache are never fatal to a
// request: callers log and recompute.
type Cache interface {
	Get(ctx context.Context, key Key) (domain.RankedPage, bool, error)
	Set(ctx context.Context, key Key, page domain.RankedPage) error
	InvalidateUser(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}
