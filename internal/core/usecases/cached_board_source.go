package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/ports"
	"github.com/samirrijal/railboard/internal/pkg/metrics"
)

// CachedBoardSource is a read-through cache in front of a departure board
// source. Raw boards are cached, so filtering for different calling points
// still reuses one upstream call.
type CachedBoardSource struct {
	source ports.DepartureBoardSource
	cache  ports.CacheService
	ttl    time.Duration
}

// NewCachedBoardSource wraps source. A nil cache or non-positive ttl disables
// caching.
func NewCachedBoardSource(source ports.DepartureBoardSource, cache ports.CacheService, ttl time.Duration) *CachedBoardSource {
	return &CachedBoardSource{source: source, cache: cache, ttl: ttl}
}

func boardCacheKey(origin string) string {
	return "boards:raw:" + origin
}

// GetDepartureBoard returns the cached board for originName, falling back to
// the wrapped source. Cache errors are never surfaced.
func (s *CachedBoardSource) GetDepartureBoard(ctx context.Context, originName string) (*domain.DepartureBoard, error) {
	enabled := s.cache != nil && s.ttl >= time.Second
	cacheKey := boardCacheKey(originName)

	if enabled {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var board domain.DepartureBoard
			if err := json.Unmarshal(data, &board); err == nil {
				metrics.CacheHits.WithLabelValues("departure_board").Inc()
				return &board, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("departure_board").Inc()
	}

	board, err := s.source.GetDepartureBoard(ctx, originName)
	if err != nil {
		return nil, err
	}

	if enabled {
		if data, err := json.Marshal(board); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, int(s.ttl/time.Second))
		}
	}
	return board, nil
}

// Invalidate drops the cached board for originName.
func (s *CachedBoardSource) Invalidate(ctx context.Context, originName string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, boardCacheKey(originName))
}
