package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/cache"
)

// RateLimitService limits review submissions per client using a Redis
// sliding window. When Redis is unavailable the check fails open so a
// cache outage never blocks review collection.
type RateLimitService struct {
	cache         *cache.Client
	logger        *logrus.Logger
	maxPerWindow  int
	windowSeconds int
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	Limit      int
	RetryAfter time.Duration
}

// NewRateLimitService creates a new rate limit service.
// A nil cache client disables rate limiting entirely.
func NewRateLimitService(cacheClient *cache.Client, logger *logrus.Logger, maxPerWindow, windowSeconds int) *RateLimitService {
	if windowSeconds <= 0 {
		windowSeconds = 3600
	}
	if maxPerWindow <= 0 {
		maxPerWindow = 5
	}
	return &RateLimitService{
		cache:         cacheClient,
		logger:        logger,
		maxPerWindow:  maxPerWindow,
		windowSeconds: windowSeconds,
	}
}

// CheckReviewSubmission checks whether a client identified by IP may
// submit another review, and records the attempt if allowed.
func (s *RateLimitService) CheckReviewSubmission(ctx context.Context, clientIP string) (*RateLimitResult, error) {
	if s.cache == nil || clientIP == "" {
		return &RateLimitResult{Allowed: true, Limit: s.maxPerWindow, Remaining: int64(s.maxPerWindow)}, nil
	}

	now := time.Now()
	windowDuration := time.Duration(s.windowSeconds) * time.Second
	windowStart := now.Add(-windowDuration)

	key := fmt.Sprintf("ratelimit:reviews:%s", clientIP)

	// Sorted set sliding window: score = timestamp, member = request ID
	pipe := s.cache.Redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, key)

	_, err := pipe.Exec(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("client_ip", clientIP).Error("Failed to check review rate limit")
		// Fail open on Redis errors
		return &RateLimitResult{Allowed: true, Limit: s.maxPerWindow, Remaining: int64(s.maxPerWindow)}, nil
	}

	currentCount := countCmd.Val()

	result := &RateLimitResult{Limit: s.maxPerWindow}

	if currentCount >= int64(s.maxPerWindow) {
		result.Allowed = false
		result.Remaining = 0

		// Retry after the oldest entry leaves the window
		oldest, err := s.cache.Redis.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			oldestTime := time.Unix(0, int64(oldest[0].Score))
			result.RetryAfter = oldestTime.Add(windowDuration).Sub(now)
			if result.RetryAfter < 0 {
				result.RetryAfter = time.Second
			}
		} else {
			result.RetryAfter = windowDuration
		}

		return result, nil
	}

	requestID := fmt.Sprintf("%d-%s", now.UnixNano(), clientIP)
	if err := s.cache.Redis.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: requestID,
	}).Err(); err != nil {
		s.logger.WithError(err).WithField("client_ip", clientIP).Warn("Failed to record review rate limit entry")
	}

	s.cache.Redis.Expire(ctx, key, windowDuration*2)

	result.Allowed = true
	result.Remaining = int64(s.maxPerWindow) - currentCount - 1
	if result.Remaining < 0 {
		result.Remaining = 0
	}

	return result, nil
}

// Reset clears the rate limit counter for a client
func (s *RateLimitService) Reset(ctx context.Context, clientIP string) error {
	if s.cache == nil {
		return nil
	}
	key := fmt.Sprintf("ratelimit:reviews:%s", clientIP)
	return s.cache.Redis.Del(ctx, key).Err()
}
