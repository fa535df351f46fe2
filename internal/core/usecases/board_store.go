package usecases

import (
	"context"
	"sort"
	"sync"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// BoardStore keeps the most recent board seen for each station. The API
// fills it from the published board stream.
type BoardStore struct {
	mu     sync.RWMutex
	boards map[string]domain.StationAndServices
}

func NewBoardStore() *BoardStore {
	return &BoardStore{boards: make(map[string]domain.StationAndServices)}
}

// Put records board as the latest for its station. It matches the
// ports.BoardSubscriber handler signature.
func (s *BoardStore) Put(_ context.Context, board *domain.StationAndServices) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[board.Station.Name] = *board
	return nil
}

// Get returns the latest board for a station.
func (s *BoardStore) Get(station string) (domain.StationAndServices, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[station]
	return b, ok
}

// All returns the latest boards sorted by station name.
func (s *BoardStore) All() []domain.StationAndServices {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StationAndServices, 0, len(s.boards))
	for _, b := range s.boards {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Station.Name < out[j].Station.Name })
	return out
}
