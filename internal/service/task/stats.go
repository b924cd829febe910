package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/pkg/metrics"
)

// statsCacheTTL bounds staleness if an invalidation is ever lost.
const statsCacheTTL = 60 * time.Second

func statsCacheKey(userID int) string {
	return fmt.Sprintf("stats:%d", userID)
}

// Stats returns the owner's task counters, served from the redis cache when
// possible. Cache trouble is logged and the stats fall through to the
// database.
func (s *Service) Stats(ctx context.Context, userID int) (*model.TaskStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, statsCacheKey(userID)).Result()
		switch {
		case err == nil:
			var stats model.TaskStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				metrics.StatsCacheHits.WithLabelValues("hit").Inc()
				return &stats, nil
			}
			// Unreadable entry: drop it and recompute.
			s.cache.Del(ctx, statsCacheKey(userID))
		case err == redis.Nil:
			metrics.StatsCacheHits.WithLabelValues("miss").Inc()
		default:
			metrics.StatsCacheHits.WithLabelValues("error").Inc()
			s.logger.Warn("Stats cache read failed",
				zap.Int("user_id", userID),
				zap.Error(err),
			)
		}
	}

	stats, err := s.tasks.AggregateStats(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if body, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey(userID), body, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("Stats cache write failed",
					zap.Int("user_id", userID),
					zap.Error(err),
				)
			}
		}
	}

	return stats, nil
}

// invalidateStats drops the cached counters after any task mutation so reads
// never observe stale stats inside the TTL window.
func (s *Service) invalidateStats(ctx context.Context, userID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("Stats cache invalidation failed",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
	}
}
