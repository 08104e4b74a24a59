package scorer

import (
	"math"
	"time"

	"github.com/staffstream/recommendation-service/internal/config"
	"github.com/staffstream/recommendation-service/internal/domain"
)

// Scorer computes relevance scores as a weighted linear combination of six
// factors. It is pure: no I/O, no mutation, no randomness, so identical
// inputs always produce identical scores.
type Scorer struct {
	weights     config.FactorWeights
	decayDays   float64
	featuredCap float64
}

func New(cfg config.RecommendConfig) *Scorer {
	featuredCap := float64(cfg.FeaturedPriorityCap)
	if featuredCap <= 0 {
		featuredCap = 100
	}
	decay := cfg.RecencyDecayDays
	if decay <= 0 {
		decay = 30
	}
	return &Scorer{
		weights:     cfg.Weights,
		decayDays:   decay,
		featuredCap: featuredCap,
	}
}

// Score combines personalized affinities with the non-personalized factors.
// A cold-start profile zeroes the first three terms and leaves the ranking
// to popularity, recency and the featured boost.
func (s *Scorer) Score(p *domain.Profile, c *domain.Content, now time.Time) float64 {
	w := s.weights
	return w.TagAffinity*tagAffinity(p, c.TagIDs) +
		w.ContentType*saturate(p.ContentTypeWeights[c.ContentType]) +
		w.CreatorAffinity*saturate(p.CreatorWeights[c.CreatorID]) +
		w.Popularity*popularity(c) +
		w.Recency*recency(c.PublishedAt, now, s.decayDays) +
		w.Featured*s.featuredBoost(c)
}

// ScoreAll scores every candidate in slice order.
func (s *Scorer) ScoreAll(p *domain.Profile, candidates []domain.Content, now time.Time) []ScoredContent {
	scored := make([]ScoredContent, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, ScoredContent{
			Content: &candidates[i],
			Score:   s.Score(p, &candidates[i], now),
		})
	}
	return scored
}

// tagAffinity is the mean saturated affinity over the content's tags. Tags
// the profile has never seen contribute 0, so cold-start content stays
// scorable through the non-personalized factors.
func tagAffinity(p *domain.Profile, tagIDs []string) float64 {
	if len(tagIDs) == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range tagIDs {
		sum += saturate(p.TagWeight(id))
	}
	return sum / float64(len(tagIDs))
}

// saturate maps an unbounded non-negative weight into [0, 1). Monotone, so
// more reinforcement always means a higher sub-score.
func saturate(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return w / (1 + w)
}

// popularity blends the engagement counters and squashes with log10 so viral
// content cannot drown everything else.
func popularity(c *domain.Content) float64 {
	engagement := float64(c.ViewCount)*0.1 +
		float64(c.LikeCount)*0.3 +
		float64(c.FavoriteCount)*0.3 +
		float64(c.CommentCount)*0.2 +
		float64(c.ShareCount)*0.1
	if engagement <= 0 {
		return 0
	}
	return math.Min(math.Log10(engagement+1)/3.0, 1.0)
}

// recency decays exponentially with content age. Future-dated publish times
// clamp to 1.0 rather than overshooting.
func recency(publishedAt, now time.Time, decayDays float64) float64 {
	ageDays := now.Sub(publishedAt).Hours() / 24.0
	if ageDays <= 0 {
		return 1.0
	}
	return math.Exp(-ageDays / decayDays)
}

// featuredBoost is the editorial lever: proportional to featured_priority,
// capped so w6 bounds the lift and organic factors still order
// equally-featured items.
func (s *Scorer) featuredBoost(c *domain.Content) float64 {
	if !c.IsFeatured || c.FeaturedPriority <= 0 {
		return 0
	}
	p := float64(c.FeaturedPriority)
	if p > s.featuredCap {
		p = s.featuredCap
	}
	return p / s.featuredCap
}
