package ports

import (
	"context"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// DepartureBoardSource fetches the raw departure board for an origin station.
type DepartureBoardSource interface {
	GetDepartureBoard(ctx context.Context, originName string) (*domain.DepartureBoard, error)
}

// BoardInvalidator is implemented by board sources that keep copies of
// boards, so that a board which failed to transform is not served again.
type BoardInvalidator interface {
	Invalidate(ctx context.Context, originName string) error
}

// ConfigSource provides the origins to scrape and the station name to code
// mapping used by the upstream client.
type ConfigSource interface {
	OriginsAndCallingPoints(ctx context.Context) ([]domain.OriginAndCallingPoints, error)
	StationCodes(ctx context.Context) (map[string]string, error)
}

// BoardPublisher emits scraped boards to their destination.
type BoardPublisher interface {
	Publish(ctx context.Context, boards []domain.StationAndServices) error
}

// BoardSubscriber receives boards published by a BoardPublisher.
type BoardSubscriber interface {
	SubscribeBoards(ctx context.Context, handler func(ctx context.Context, board *domain.StationAndServices) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
