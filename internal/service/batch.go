package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// GetBatchRecommendations fans out first-page rankings for one page of users
// with a bounded worker pool. Per-user failures are captured in the result
// rather than failing the batch.
func (s *Service) GetBatchRecommendations(ctx context.Context, page, limit int) (*domain.BatchResponse, error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}
	if limit < 1 {
		return nil, domain.ErrInvalidPageSize
	}

	start := time.Now()

	userIDs, err := s.users.GetUserIDsPaginated(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch user ids: %w", err)
	}
	totalUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	concurrency := s.cfg.BatchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]domain.BatchUserResult, len(userIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, userID := range userIDs {
		wg.Add(1)
		go func(idx int, uid string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = s.processUserForBatch(ctx, uid)
		}(i, userID)
	}
	wg.Wait()

	successCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		}
	}

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      len(results) - successCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (s *Service) processUserForBatch(ctx context.Context, userID string) domain.BatchUserResult {
	recLimit := s.cfg.BatchRecLimit
	if recLimit < 1 {
		recLimit = 10
	}

	result, err := s.GetRecommendations(ctx, userID, 1, recLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("batch recommendation failed")
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}
	return domain.BatchUserResult{
		UserID: userID,
		Items:  result.Page.Items,
		Total:  result.Page.Total,
		Status: domain.StatusSuccess,
	}
}

func categorizeError(err error) (string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidPage), errors.Is(err, domain.ErrInvalidPageSize):
		return "invalid_parameter", err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request_timeout", "request timed out"
	default:
		return "internal_error", "an unexpected error occurred"
	}
}
