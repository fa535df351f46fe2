package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// --- Mock DepartureBoardSource ---

type mockBoardSource struct {
	mu    sync.Mutex
	calls []string
	getFn func(ctx context.Context, origin string) (*domain.DepartureBoard, error)
}

func (m *mockBoardSource) GetDepartureBoard(ctx context.Context, origin string) (*domain.DepartureBoard, error) {
	m.mu.Lock()
	m.calls = append(m.calls, origin)
	m.mu.Unlock()
	if m.getFn != nil {
		return m.getFn(ctx, origin)
	}
	return rawBoard(origin, "Dest"), nil
}

func (m *mockBoardSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock ConfigSource ---

type mockConfig struct {
	origins []domain.OriginAndCallingPoints
	err     error
}

func (m *mockConfig) OriginsAndCallingPoints(ctx context.Context) ([]domain.OriginAndCallingPoints, error) {
	return m.origins, m.err
}

func (m *mockConfig) StationCodes(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, m.err
}

// --- Mock BoardPublisher ---

type mockPublisher struct {
	published [][]domain.StationAndServices
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, boards []domain.StationAndServices) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, boards)
	return nil
}

// --- Helpers ---

func str(s string) *string { return &s }

// rawBoard builds an upstream board for origin with one on-time service
// calling at dest.
func rawBoard(origin, dest string) *domain.DepartureBoard {
	return &domain.DepartureBoard{
		LocationName: str(origin),
		TrainServices: &domain.TrainServices{Service: []domain.ServiceRecord{{
			ServiceID: str(origin + "-1"),
			Std:       str("10:00"),
			Etd:       str("On time"),
			SubsequentCallingPoints: &domain.CallingPointLists{CallingPointList: []domain.CallingPointList{{
				CallingPoint: []domain.CallingPointRecord{{LocationName: str(dest), St: str("10:30"), Et: str("On time")}},
			}}},
		}}},
	}
}

func req(origin string, names ...string) domain.OriginAndCallingPoints {
	if len(names) == 0 {
		names = []string{"Dest"}
	}
	return domain.OriginAndCallingPoints{OriginName: origin, CallingPointNames: names}
}
