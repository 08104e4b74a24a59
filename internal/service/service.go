package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/staffstream/recommendation-service/internal/cache"
	"github.com/staffstream/recommendation-service/internal/config"
	"github.com/staffstream/recommendation-service/internal/domain"
	"github.com/staffstream/recommendation-service/internal/metrics"
	"github.com/staffstream/recommendation-service/internal/scorer"
)

type Service struct {
	profiles ProfileStore
	catalog  ContentCatalog
	history  WatchHistory
	users    UserStore
	cache    cache.Cache
	scorer   *scorer.Scorer
	cfg      config.RecommendConfig
	log      zerolog.Logger

	// flight collapses concurrent identical cache-miss computes. Correctness
	// does not depend on it: duplicate computes over the same inputs produce
	// the same page.
	flight singleflight.Group

	now func() time.Time
}

// Store bundles the persistence interfaces the service needs.
type Store struct {
	Profiles ProfileStore
	Catalog  ContentCatalog
	History  WatchHistory
	Users    UserStore
}

func New(store Store, c cache.Cache, sc *scorer.Scorer, cfg config.RecommendConfig, log zerolog.Logger) *Service {
	return &Service{
		profiles: store.Profiles,
		catalog:  store.Catalog,
		history:  store.History,
		users:    store.Users,
		cache:    c,
		scorer:   sc,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// GetRecommendations returns one ranked page for the user, serving from the
// cache when a fresh entry exists. Cache failures degrade to a direct
// compute; only input validation and storage failures surface to the caller.
//
// page_size above the configured maximum is clamped, not rejected: oversized
// pages are a resource concern, not a caller bug.
func (s *Service) GetRecommendations(ctx context.Context, userID string, page, pageSize int) (*domain.RecommendationResult, error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}
	if pageSize < 1 {
		return nil, domain.ErrInvalidPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	metrics.RecommendationRequests.Inc()
	key := cache.Key{UserID: userID, Page: page, PageSize: pageSize}

	cached, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.Inc()
		s.log.Warn().Err(err).Str("user_id", userID).Msg("cache get failed, computing directly")
	}
	if hit {
		metrics.CacheHits.Inc()
		return &domain.RecommendationResult{Page: cached, CacheHit: true}, nil
	}
	metrics.CacheMisses.Inc()

	v, err, _ := s.flight.Do(key.String(), func() (any, error) {
		ranked, err := s.computePage(ctx, userID, page, pageSize)
		if err != nil {
			return nil, err
		}
		if cacheErr := s.cache.Set(ctx, key, ranked); cacheErr != nil {
			metrics.CacheErrors.Inc()
			s.log.Warn().Err(cacheErr).Str("user_id", userID).Msg("cache set failed")
		}
		return ranked, nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.RecommendationResult{Page: v.(domain.RankedPage), CacheHit: false}, nil
}

// computePage runs select -> score -> rank for one request.
func (s *Service) computePage(ctx context.Context, userID string, page, pageSize int) (domain.RankedPage, error) {
	start := s.now()
	defer func() {
		metrics.ScoringDuration.Observe(s.now().Sub(start).Seconds())
	}()

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return domain.RankedPage{}, fmt.Errorf("load profile: %w", err)
		}
		// No interaction history yet: rank on the non-personalized factors.
		profile = domain.NewProfile(userID)
	}

	candidates, err := s.selectCandidates(ctx, userID)
	if err != nil {
		return domain.RankedPage{}, err
	}

	scored := s.scorer.ScoreAll(profile, candidates, s.now())
	return scorer.RankAndPaginate(scored, page, pageSize), nil
}

// selectCandidates filters the published pool to content the viewer did not
// author and has not completed within the recency window. If the window
// filter would empty a non-empty pool it is relaxed entirely, so a
// low-content deployment never degenerates into an empty feed.
func (s *Service) selectCandidates(ctx context.Context, userID string) ([]domain.Content, error) {
	pool, err := s.catalog.GetPublishedContent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	if len(pool) == 0 || s.cfg.RecencyWindowDays <= 0 {
		return pool, nil
	}

	since := s.now().AddDate(0, 0, -s.cfg.RecencyWindowDays)
	seen, err := s.history.RecentCompletions(ctx, userID, since)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("watch history unavailable, skipping exclusion")
		return pool, nil
	}
	if len(seen) == 0 {
		return pool, nil
	}

	fresh := make([]domain.Content, 0, len(pool))
	for _, c := range pool {
		if _, ok := seen[c.ID]; !ok {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		return pool, nil
	}
	return fresh, nil
}

// RecordInteraction folds one behavioral signal into the user's preference
// profile. Reinforcement is monotone and not idempotent: the interaction log
// upstream owns at-most-once delivery per logical event.
func (s *Service) RecordInteraction(ctx context.Context, ev domain.InteractionEvent) error {
	if !domain.ValidInteractionType(ev.Type) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidInteractionType, ev.Type)
	}

	exists, err := s.users.UserExists(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		// Interactions referencing deleted users are expected traffic.
		s.log.Warn().Str("user_id", ev.UserID).Msg("interaction for unknown user dropped")
		return nil
	}

	delta := domain.ProfileDelta{
		Type:                 ev.Type,
		Increment:            s.baseIncrement(ev.Type),
		WatchDurationSeconds: ev.WatchDurationSeconds,
	}

	dims, err := s.catalog.GetContentDimensions(ctx, ev.ContentID)
	switch {
	case err == nil:
		delta.RoleTagIDs = dims.RoleTagIDs
		delta.TopicTagIDs = dims.TopicTagIDs
		delta.ContentType = dims.ContentType
		delta.CreatorID = dims.CreatorID
	case errors.Is(err, domain.ErrContentNotFound):
		// Content vanished from the catalog: the weight dimensions become a
		// no-op but the lifetime counters still advance.
		s.log.Warn().Str("content_id", ev.ContentID).Msg("interaction with unresolved content")
		delta.Increment = 0
	default:
		return fmt.Errorf("resolve content: %w", err)
	}

	if err := s.profiles.ApplyProfileDelta(ctx, ev.UserID, delta); err != nil {
		return fmt.Errorf("apply profile delta: %w", err)
	}

	if ev.Type == domain.InteractionCompletion && delta.Increment > 0 {
		if err := s.history.RecordCompletion(ctx, ev.UserID, ev.ContentID, s.now()); err != nil {
			s.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("completion projection update failed")
		}
	}

	metrics.InteractionsRecorded.WithLabelValues(string(ev.Type)).Inc()

	if s.cfg.EagerInvalidation {
		if err := s.cache.InvalidateUser(ctx, ev.UserID); err != nil {
			metrics.CacheErrors.Inc()
			s.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("cache invalidation failed")
		}
	}
	return nil
}

func (s *Service) baseIncrement(t domain.InteractionType) float64 {
	if inc, ok := s.cfg.BaseIncrements[string(t)]; ok {
		return inc
	}
	return 1.0
}
