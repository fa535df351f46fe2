package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/ports"
	"github.com/samirrijal/railboard/internal/pkg/telemetry"
)

// ScrapeMode selects how a run treats a failing origin.
type ScrapeMode string

const (
	ModeFailFast   ScrapeMode = "fail_fast"
	ModeBestEffort ScrapeMode = "best_effort"
)

// ParseScrapeMode validates a configured mode name.
func ParseScrapeMode(s string) (ScrapeMode, error) {
	switch m := ScrapeMode(s); m {
	case ModeFailFast, ModeBestEffort:
		return m, nil
	default:
		return "", fmt.Errorf("unknown scrape mode %q", s)
	}
}

// FailedOrigin records an origin that could not be scraped in a best-effort run.
type FailedOrigin struct {
	Origin string `json:"origin"`
	Error  string `json:"error"`
}

// RunReport summarises one scrape-and-publish run.
type RunReport struct {
	RunID     string         `json:"run_id"`
	Published int            `json:"published"`
	Failed    []FailedOrigin `json:"failed"`
}

// PipelineService loads the configured origins, scrapes them and publishes
// the results. It also answers on-demand board queries for the API.
type PipelineService struct {
	config    ports.ConfigSource
	scraper   *ScrapeService
	publisher ports.BoardPublisher
}

// NewPipelineService creates a PipelineService. publisher may be nil when
// the service only answers queries.
func NewPipelineService(config ports.ConfigSource, scraper *ScrapeService, publisher ports.BoardPublisher) *PipelineService {
	return &PipelineService{config: config, scraper: scraper, publisher: publisher}
}

// Origins returns the configured origins sorted by name.
func (s *PipelineService) Origins(ctx context.Context) ([]domain.OriginAndCallingPoints, error) {
	reqs, err := s.config.OriginsAndCallingPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load origins: %w", err)
	}
	sorted := make([]domain.OriginAndCallingPoints, len(reqs))
	copy(sorted, reqs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OriginName < sorted[j].OriginName })
	return sorted, nil
}

// Board scrapes a single configured origin.
func (s *PipelineService) Board(ctx context.Context, origin string) (*domain.StationAndServices, error) {
	reqs, err := s.config.OriginsAndCallingPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load origins: %w", err)
	}
	for _, req := range reqs {
		if req.OriginName == origin {
			board, err := s.scraper.ScrapeOrigin(ctx, req)
			if err != nil {
				return nil, err
			}
			return &board, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrOriginNotConfigured, origin)
}

// Boards scrapes every configured origin, best effort.
func (s *PipelineService) Boards(ctx context.Context) ([]domain.ScrapeResult, error) {
	reqs, err := s.config.OriginsAndCallingPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load origins: %w", err)
	}
	return s.scraper.ScrapeAll(ctx, reqs), nil
}

// Run scrapes every configured origin and publishes the boards. In fail-fast
// mode nothing is published if any origin fails. In best-effort mode the
// successful boards are published and the failures listed in the report.
func (s *PipelineService) Run(ctx context.Context, mode ScrapeMode) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString(), Failed: []FailedOrigin{}}
	log := slog.With("run_id", report.RunID, "mode", string(mode))

	ctx, span := otel.Tracer("github.com/samirrijal/railboard/internal/core/usecases").
		Start(ctx, "PipelineRun", trace.WithAttributes(telemetry.AttrRunID.String(report.RunID)))
	defer span.End()

	reqs, err := s.config.OriginsAndCallingPoints(ctx)
	if err != nil {
		return report, fmt.Errorf("load origins: %w", err)
	}
	log.Info("scrape run started", "origins", len(reqs))

	var boards []domain.StationAndServices
	switch mode {
	case ModeBestEffort:
		for _, r := range s.scraper.ScrapeAll(ctx, reqs) {
			if !r.OK() {
				report.Failed = append(report.Failed, FailedOrigin{Origin: r.Origin, Error: r.Err.Error()})
				continue
			}
			boards = append(boards, *r.Board)
		}
	default:
		boards, err = s.scraper.Scrape(ctx, reqs)
		if err != nil {
			log.Error("scrape run failed", "error", err)
			return report, err
		}
	}

	if s.publisher != nil && len(boards) > 0 {
		if err := s.publisher.Publish(ctx, boards); err != nil {
			return report, fmt.Errorf("publish boards: %w", err)
		}
	}
	report.Published = len(boards)

	log.Info("scrape run finished", "published", report.Published, "failed", len(report.Failed))
	return report, nil
}
