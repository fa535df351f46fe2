package config

import (
	"context"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// StaticSource implements ports.ConfigSource from the loaded configuration.
type StaticSource struct {
	origins []domain.OriginAndCallingPoints
	codes   map[string]string
}

func NewStaticSource(cfg *Config) *StaticSource {
	return &StaticSource{origins: cfg.Origins, codes: cfg.StationCodes()}
}

func (s *StaticSource) OriginsAndCallingPoints(_ context.Context) ([]domain.OriginAndCallingPoints, error) {
	out := make([]domain.OriginAndCallingPoints, len(s.origins))
	copy(out, s.origins)
	return out, nil
}

func (s *StaticSource) StationCodes(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.codes))
	for k, v := range s.codes {
		out[k] = v
	}
	return out, nil
}
