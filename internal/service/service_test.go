package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/staffstream/recommendation-service/internal/cache"
	"github.com/staffstream/recommendation-service/internal/config"
	"github.com/staffstream/recommendation-service/internal/domain"
	"github.com/staffstream/recommendation-service/internal/repository"
	"github.com/staffstream/recommendation-service/internal/scorer"
)

// fakeStore backs all four persistence interfaces in memory, applying
// profile deltas with the same rules as the Postgres store.
type fakeStore struct {
	profiles    map[string]*domain.Profile
	content     []domain.Content
	dims        map[string]*domain.ContentDimensions
	completions map[string]map[string]time.Time
	users       map[string]bool

	poolCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:    map[string]*domain.Profile{},
		dims:        map[string]*domain.ContentDimensions{},
		completions: map[string]map[string]time.Time{},
		users:       map[string]bool{},
	}
}

func (f *fakeStore) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) ApplyProfileDelta(_ context.Context, userID string, delta domain.ProfileDelta) error {
	p, ok := f.profiles[userID]
	if !ok {
		p = domain.NewProfile(userID)
		f.profiles[userID] = p
	}
	repository.Apply(p, delta)
	return nil
}

func (f *fakeStore) GetPublishedContent(_ context.Context, excludeCreator string) ([]domain.Content, error) {
	f.poolCalls++
	var out []domain.Content
	for _, c := range f.content {
		if c.Status != domain.StatusPublished {
			continue
		}
		if excludeCreator != "" && c.CreatorID == excludeCreator {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetContentDimensions(_ context.Context, contentID string) (*domain.ContentDimensions, error) {
	d, ok := f.dims[contentID]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return d, nil
}

func (f *fakeStore) RecordCompletion(_ context.Context, userID, contentID string, watchedAt time.Time) error {
	if f.completions[userID] == nil {
		f.completions[userID] = map[string]time.Time{}
	}
	f.completions[userID][contentID] = watchedAt
	return nil
}

func (f *fakeStore) RecentCompletions(_ context.Context, userID string, since time.Time) (map[string]struct{}, error) {
	seen := map[string]struct{}{}
	for id, at := range f.completions[userID] {
		if !at.Before(since) {
			seen[id] = struct{}{}
		}
	}
	return seen, nil
}

func (f *fakeStore) UserExists(_ context.Context, userID string) (bool, error) {
	return f.users[userID], nil
}

func (f *fakeStore) GetUserIDsPaginated(_ context.Context, page, limit int) ([]string, error) {
	ids := make([]string, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	start := (page - 1) * limit
	if start >= len(ids) {
		return nil, nil
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end], nil
}

func (f *fakeStore) CountUsers(context.Context) (int, error) {
	return len(f.users), nil
}

// brokenCache fails every operation, standing in for an unreachable backend.
type brokenCache struct{}

func (brokenCache) Get(context.Context, cache.Key) (domain.RankedPage, bool, error) {
	return domain.RankedPage{}, false, errors.New("cache down")
}
func (brokenCache) Set(context.Context, cache.Key, domain.RankedPage) error {
	return errors.New("cache down")
}
func (brokenCache) InvalidateUser(context.Context, string) error { return errors.New("cache down") }
func (brokenCache) Ping(context.Context) error                   { return errors.New("cache down") }

func testRecommendConfig() config.RecommendConfig {
	return config.RecommendConfig{
		Weights: config.FactorWeights{
			TagAffinity:     0.55,
			ContentType:     0.15,
			CreatorAffinity: 0.15,
			Popularity:      0.10,
			Recency:         0.15,
			Featured:        0.10,
		},
		BaseIncrements: map[string]float64{
			"view": 1.0, "completion": 2.0, "like": 2.0,
			"comment": 2.5, "favorite": 3.0, "share": 3.5,
		},
		CacheTTL:            15 * time.Minute,
		CacheMaxEntries:     100,
		DefaultPageSize:     20,
		MaxPageSize:         100,
		RecencyWindowDays:   7,
		RecencyDecayDays:    30,
		FeaturedPriorityCap: 100,
		BatchConcurrency:    4,
		BatchRecLimit:       10,
	}
}

func newTestService(store *fakeStore, c cache.Cache, cfg config.RecommendConfig) *Service {
	return New(Store{Profiles: store, Catalog: store, History: store, Users: store},
		c, scorer.New(cfg), cfg, zerolog.Nop())
}

func seedCatalog(store *fakeStore, n int) {
	now := time.Now()
	for i := 0; i < n; i++ {
		id := contentID(i)
		store.content = append(store.content, domain.Content{
			ID:          id,
			Status:      domain.StatusPublished,
			CreatorID:   "creator-x",
			ContentType: "tutorial",
			TagIDs:      []string{"tag-a"},
			PublishedAt: now.AddDate(0, 0, -i%28),
			ViewCount:   int64(i * 13),
		})
		store.dims[id] = &domain.ContentDimensions{
			CreatorID:   "creator-x",
			ContentType: "tutorial",
			TopicTagIDs: []string{"tag-a"},
		}
	}
}

func contentID(i int) string {
	return string(rune('a'+i/26)) + string(rune('a'+i%26))
}

func TestRecordInteractionShareThenLike(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	store.content = []domain.Content{{ID: "c1", Status: domain.StatusPublished}}
	store.dims["c1"] = &domain.ContentDimensions{
		CreatorID:   "creator-1",
		ContentType: "demo",
		RoleTagIDs:  []string{"role-1"},
		TopicTagIDs: []string{"topic-1"},
	}
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())
	ctx := context.Background()

	require.NoError(t, svc.RecordInteraction(ctx, domain.InteractionEvent{
		UserID: "u1", ContentID: "c1", Type: domain.InteractionShare,
	}))
	require.NoError(t, svc.RecordInteraction(ctx, domain.InteractionEvent{
		UserID: "u1", ContentID: "c1", Type: domain.InteractionLike,
	}))

	p := store.profiles["u1"]
	require.EqualValues(t, 1, p.ShareCount)
	require.EqualValues(t, 1, p.LikeCount)

	// Both increments land additively on every dimension: 3.5 + 2.0.
	require.InDelta(t, 5.5, p.TopicTagWeights["topic-1"], 1e-9)
	require.InDelta(t, 5.5, p.RoleTagWeights["role-1"], 1e-9)
	require.InDelta(t, 5.5, p.ContentTypeWeights["demo"], 1e-9)
	require.InDelta(t, 5.5, p.CreatorWeights["creator-1"], 1e-9)
}

func TestRecordInteractionMonotone(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	store.dims["c1"] = &domain.ContentDimensions{
		CreatorID: "cr", ContentType: "demo", TopicTagIDs: []string{"t1", "t2"},
	}
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())
	ctx := context.Background()

	types := []domain.InteractionType{
		domain.InteractionView, domain.InteractionLike, domain.InteractionComment,
		domain.InteractionFavorite, domain.InteractionShare, domain.InteractionCompletion,
	}
	prev := map[string]float64{}
	for _, typ := range types {
		require.NoError(t, svc.RecordInteraction(ctx, domain.InteractionEvent{
			UserID: "u1", ContentID: "c1", Type: typ,
		}))
		p := store.profiles["u1"]
		for _, tag := range []string{"t1", "t2"} {
			require.GreaterOrEqual(t, p.TopicTagWeights[tag], prev[tag],
				"weight for %s decreased after %s", tag, typ)
			prev[tag] = p.TopicTagWeights[tag]
		}
	}
}

func TestRecordInteractionUnknownType(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())

	err := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: "u1", ContentID: "c1", Type: "superlike",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInteractionType)
	require.Empty(t, store.profiles, "rejected events must not touch profiles")
}

func TestRecordInteractionUnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())

	err := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: "ghost", ContentID: "c1", Type: domain.InteractionView,
	})
	require.NoError(t, err, "interactions for deleted users are dropped, not failed")
	require.Empty(t, store.profiles)
}

func TestRecordInteractionUnresolvedContent(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())

	require.NoError(t, svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: "u1", ContentID: "vanished", Type: domain.InteractionLike,
	}))

	p := store.profiles["u1"]
	require.EqualValues(t, 1, p.LikeCount, "counters advance even when content is unresolved")
	require.Empty(t, p.TopicTagWeights)
	require.Empty(t, p.CreatorWeights)
}

func TestRecordCompletionFeedsExclusion(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	seedCatalog(store, 5)
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())
	ctx := context.Background()

	require.NoError(t, svc.RecordInteraction(ctx, domain.InteractionEvent{
		UserID: "u1", ContentID: contentID(0), Type: domain.InteractionCompletion,
		WatchDurationSeconds: 42,
	}))
	require.Contains(t, store.completions["u1"], contentID(0))
	require.InDelta(t, 42, store.profiles["u1"].WatchDurationSeconds, 1e-9)

	result, err := svc.GetRecommendations(ctx, "u1", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 4, result.Page.Total)
	require.NotContains(t, result.Page.Items, contentID(0))
}

func TestRecencyWindowRelaxedWhenPoolEmpties(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	seedCatalog(store, 3)
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordInteraction(ctx, domain.InteractionEvent{
			UserID: "u1", ContentID: contentID(i), Type: domain.InteractionCompletion,
		}))
	}

	result, err := svc.GetRecommendations(ctx, "u1", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 3, result.Page.Total, "filter relaxes instead of emptying the feed")
	require.Len(t, result.Page.Items, 3)
}

func TestGetRecommendationsColdStart(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, 10)
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())

	result, err := svc.GetRecommendations(context.Background(), "brand-new-user", 1, 20)
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Equal(t, 10, result.Page.Total)
	require.NotEmpty(t, result.Page.Items, "cold start must still produce a ranking")
}

func TestGetRecommendationsSelfContentExcluded(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, 4)
	store.content[0].CreatorID = "u1"
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())

	result, err := svc.GetRecommendations(context.Background(), "u1", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 3, result.Page.Total)
	require.NotContains(t, result.Page.Items, store.content[0].ID)
}

func TestGetRecommendationsCacheHit(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, 45)
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())
	ctx := context.Background()

	first, err := svc.GetRecommendations(ctx, "u1", 3, 20)
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Page.Items, 5)
	require.Equal(t, 45, first.Page.Total)

	second, err := svc.GetRecommendations(ctx, "u1", 3, 20)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Page, second.Page, "hit returns exactly what the fresh compute produced")
	require.Equal(t, 1, store.poolCalls, "cache hit short-circuits candidate selection")
}

func TestGetRecommendationsCacheUnavailable(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, 10)
	svc := newTestService(store, brokenCache{}, testRecommendConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := svc.GetRecommendations(ctx, "u1", 1, 20)
		require.NoError(t, err, "cache outage must not fail the request")
		require.False(t, result.CacheHit)
		require.Equal(t, 10, result.Page.Total)
	}
	require.Equal(t, 2, store.poolCalls)
}

func TestGetRecommendationsEmptyPool(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())

	result, err := svc.GetRecommendations(context.Background(), "u1", 1, 20)
	require.NoError(t, err, "an empty platform is a valid terminal state")
	require.Empty(t, result.Page.Items)
	require.Equal(t, 0, result.Page.Total)
}

func TestGetRecommendationsInvalidInput(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, 5)
	svc := newTestService(store, cache.NewMemory(10, time.Minute), testRecommendConfig())
	ctx := context.Background()

	_, err := svc.GetRecommendations(ctx, "u1", 0, 20)
	require.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = svc.GetRecommendations(ctx, "u1", 1, 0)
	require.ErrorIs(t, err, domain.ErrInvalidPageSize)

	// Oversized page_size clamps instead of failing.
	result, err := svc.GetRecommendations(ctx, "u1", 1, 100000)
	require.NoError(t, err)
	require.LessOrEqual(t, len(result.Page.Items), testRecommendConfig().MaxPageSize)
}

func TestEagerInvalidation(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = true
	seedCatalog(store, 5)
	cfg := testRecommendConfig()
	cfg.EagerInvalidation = true
	mem := cache.NewMemory(10, time.Minute)
	svc := newTestService(store, mem, cfg)
	ctx := context.Background()

	_, err := svc.GetRecommendations(ctx, "u1", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, mem.Len())

	require.NoError(t, svc.RecordInteraction(ctx, domain.InteractionEvent{
		UserID: "u1", ContentID: contentID(1), Type: domain.InteractionLike,
	}))
	require.Equal(t, 0, mem.Len(), "interaction busts the user's cached pages")
}

func TestBatchRecommendations(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, 10)
	for _, id := range []string{"u1", "u2", "u3"} {
		store.users[id] = true
	}
	svc := newTestService(store, cache.NewMemory(100, time.Minute), testRecommendConfig())

	resp, err := svc.GetBatchRecommendations(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 3, resp.TotalUsers)
	require.Len(t, resp.Results, 3)
	require.Equal(t, 3, resp.Summary.SuccessCount)
	require.Zero(t, resp.Summary.FailedCount)
	for _, r := range resp.Results {
		require.Equal(t, domain.StatusSuccess, r.Status)
		require.NotEmpty(t, r.Items)
	}
}
