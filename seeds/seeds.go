package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Setup populates a fresh database with a plausible internal-platform
// dataset: staff accounts, categorized tags, published short videos and a
// skewed watch history.
func Setup(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	rng := rand.New(rand.NewSource(42))

	log.Info().Msg("seeding: truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE user_watch_history, user_preferences, content_tags, content, tags, users CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	userIDs, err := seedUsers(ctx, pool, rng, 20)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Info().Int("count", len(userIDs)).Msg("seeding: users inserted")

	tagIDs, err := seedTags(ctx, pool)
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	log.Info().Int("count", len(tagIDs)).Msg("seeding: tags inserted")

	contentIDs, err := seedContent(ctx, pool, rng, userIDs, tagIDs, 60)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}
	log.Info().Int("count", len(contentIDs)).Msg("seeding: content inserted")

	if err := seedWatchHistory(ctx, pool, rng, userIDs, contentIDs, 200); err != nil {
		return fmt.Errorf("seed watch history: %w", err)
	}

	log.Info().Msg("seeding complete")
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) ([]string, error) {
	positions := []string{"engineer", "designer", "sales", "support", "manager", "hr"}

	ids := make([]string, 0, n)
	rows := []string{}
	args := []any{}

	for i := range n {
		id := uuid.NewString()
		ids = append(ids, id)
		username := fmt.Sprintf("staff%02d", i+1)
		position := positions[rng.Intn(len(positions))]
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(365))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, id, username, position, createdAt)
	}

	query := "INSERT INTO users (id, username, position, created_at) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedTags(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	tags := []struct {
		name     string
		category string
	}{
		{"engineer", "role"},
		{"designer", "role"},
		{"sales", "role"},
		{"new-hire", "role"},
		{"python", "topic"},
		{"golang", "topic"},
		{"onboarding", "topic"},
		{"product-updates", "topic"},
		{"workplace-culture", "topic"},
		{"customer-stories", "topic"},
		{"wellbeing", "topic"},
		{"security-training", "topic"},
	}

	ids := make([]string, 0, len(tags))
	rows := []string{}
	args := []any{}

	for _, t := range tags {
		id := uuid.NewString()
		ids = append(ids, id)
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, id, t.name, t.category)
	}

	query := "INSERT INTO tags (id, name, category) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, userIDs, tagIDs []string, n int) ([]string, error) {
	contentTypes := []string{"tutorial", "announcement", "culture", "interview", "demo"}
	titleStems := []string{
		"Getting Started with", "Deep Dive:", "Five Minutes on", "Why We Built",
		"A Day in the Life of", "Quick Tips for", "Behind the Scenes:", "Lessons from",
	}
	subjects := []string{
		"the Deploy Pipeline", "Customer Onboarding", "Our Design System",
		"the Quarterly Roadmap", "Incident Response", "the Sales Playbook",
		"Remote Collaboration", "the New Office",
	}

	ids := make([]string, 0, n)
	contentRows := []string{}
	contentArgs := []any{}
	tagRows := []string{}
	tagArgs := []any{}

	for i := range n {
		id := uuid.NewString()
		ids = append(ids, id)

		title := fmt.Sprintf("%s %s", titleStems[i%len(titleStems)], subjects[rng.Intn(len(subjects))])
		creator := userIDs[rng.Intn(len(userIDs))]
		contentType := contentTypes[rng.Intn(len(contentTypes))]
		publishedAt := time.Now().AddDate(0, 0, -rng.Intn(60))
		views := powerLawCount(rng, 5000)
		likes := views / (3 + int64(rng.Intn(8)))
		favorites := likes / 2
		comments := likes / 3
		shares := likes / 4
		featured := rng.Float64() < 0.1
		priority := 0
		if featured {
			priority = rng.Intn(100) + 1
		}

		base := len(contentArgs)
		contentRows = append(contentRows, fmt.Sprintf(
			"($%d, $%d, 'published', $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11, base+12))
		contentArgs = append(contentArgs, id, title, creator, contentType, publishedAt,
			views, likes, favorites, comments, shares, featured, priority)

		// 1-3 tags per item
		for _, ti := range rng.Perm(len(tagIDs))[:1+rng.Intn(3)] {
			tb := len(tagArgs)
			tagRows = append(tagRows, fmt.Sprintf("($%d, $%d)", tb+1, tb+2))
			tagArgs = append(tagArgs, id, tagIDs[ti])
		}
	}

	query := `INSERT INTO content
		(id, title, status, creator_id, content_type, published_at,
		 view_count, like_count, favorite_count, comment_count, share_count,
		 is_featured, featured_priority)
		VALUES ` + strings.Join(contentRows, ", ")
	if _, err := pool.Exec(ctx, query, contentArgs...); err != nil {
		return nil, err
	}

	tagQuery := "INSERT INTO content_tags (content_id, tag_id) VALUES " + strings.Join(tagRows, ", ")
	if _, err := pool.Exec(ctx, tagQuery, tagArgs...); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedWatchHistory(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, userIDs, contentIDs []string, n int) error {
	seen := make(map[[2]string]bool)

	rows := []string{}
	args := []any{}

	for range n {
		user := userIDs[skewedIndex(rng, len(userIDs), 1.5)]
		content := contentIDs[skewedIndex(rng, len(contentIDs), 1.3)]

		key := [2]string{user, content}
		if seen[key] {
			continue
		}
		seen[key] = true

		watchedAt := time.Now().AddDate(0, 0, -rng.Intn(30))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, user, content, watchedAt)
	}

	if len(rows) == 0 {
		return nil
	}
	query := "INSERT INTO user_watch_history (user_id, content_id, watched_at) VALUES " +
		strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

// skewedIndex biases toward low indices so a handful of users and items
// dominate, like real engagement does.
func skewedIndex(rng *rand.Rand, n int, exponent float64) int {
	i := int(math.Pow(rng.Float64(), exponent) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func powerLawCount(rng *rand.Rand, maxCount int64) int64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	return int64(math.Pow(u, 2.0) * float64(maxCount))
}
