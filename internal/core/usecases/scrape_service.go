package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/ports"
	"github.com/samirrijal/railboard/internal/core/transform"
	"github.com/samirrijal/railboard/internal/pkg/metrics"
	"github.com/samirrijal/railboard/internal/pkg/telemetry"
)

// ScrapeService fetches departure boards and transforms them for a set of
// origins. Origins share no state, so they may be scraped concurrently;
// results always come back in request order.
type ScrapeService struct {
	source      ports.DepartureBoardSource
	concurrency int
	tracer      trace.Tracer
}

// NewScrapeService creates a ScrapeService. A concurrency below 1 means
// origins are scraped one at a time.
func NewScrapeService(source ports.DepartureBoardSource, concurrency int) *ScrapeService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScrapeService{
		source:      source,
		concurrency: concurrency,
		tracer:      otel.Tracer("github.com/samirrijal/railboard/internal/core/usecases"),
	}
}

// ScrapeOrigin fetches and transforms the board for a single origin.
func (s *ScrapeService) ScrapeOrigin(ctx context.Context, req domain.OriginAndCallingPoints) (domain.StationAndServices, error) {
	ctx, span := s.tracer.Start(ctx, "ScrapeOrigin", trace.WithAttributes(
		telemetry.AttrOrigin.String(req.OriginName),
		telemetry.AttrCallingPoints.Int(len(req.CallingPointNames)),
	))
	defer span.End()

	start := time.Now()
	result, err := s.scrapeOrigin(ctx, req)
	metrics.ScrapeDuration.WithLabelValues(req.OriginName).Observe(time.Since(start).Seconds())
	metrics.OriginsScraped.WithLabelValues(req.OriginName, outcome(err)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.StationAndServices{}, fmt.Errorf("scrape origin %q: %w", req.OriginName, err)
	}
	span.SetAttributes(telemetry.AttrServices.Int(len(result.Services)))
	metrics.ServicesEmitted.WithLabelValues(req.OriginName).Add(float64(len(result.Services)))
	return result, nil
}

func (s *ScrapeService) scrapeOrigin(ctx context.Context, req domain.OriginAndCallingPoints) (domain.StationAndServices, error) {
	board, err := s.source.GetDepartureBoard(ctx, req.OriginName)
	if err != nil {
		return domain.StationAndServices{}, err
	}
	result, err := transform.Transform(board, req.Names())
	if errors.Is(err, domain.ErrMalformedPayload) {
		if inv, ok := s.source.(ports.BoardInvalidator); ok {
			if ierr := inv.Invalidate(ctx, req.OriginName); ierr != nil {
				slog.Warn("could not drop malformed board from cache", "origin", req.OriginName, "error", ierr)
			}
		}
	}
	return result, err
}

// Scrape scrapes every origin and stops at the first failure. The returned
// error names the origin that failed.
func (s *ScrapeService) Scrape(ctx context.Context, reqs []domain.OriginAndCallingPoints) ([]domain.StationAndServices, error) {
	results, err := s.run(ctx, reqs, true)
	if err != nil {
		return nil, err
	}
	boards := make([]domain.StationAndServices, 0, len(results))
	for _, r := range results {
		boards = append(boards, *r.Board)
	}
	return boards, nil
}

// ScrapeAll scrapes every origin and reports each outcome, one result per
// request in request order. A failed origin never hides the others.
func (s *ScrapeService) ScrapeAll(ctx context.Context, reqs []domain.OriginAndCallingPoints) []domain.ScrapeResult {
	results, _ := s.run(ctx, reqs, false)
	for _, r := range results {
		if r.Err != nil {
			slog.Warn("origin scrape failed", "origin", r.Origin, "error", r.Err)
		}
	}
	return results
}

// run scrapes reqs with bounded concurrency into index-addressed slots.
// With failFast set, the first failure cancels origins not yet finished and
// is returned as the error.
func (s *ScrapeService) run(ctx context.Context, reqs []domain.OriginAndCallingPoints, failFast bool) ([]domain.ScrapeResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]domain.ScrapeResult, len(reqs))
	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		failure  error
	)
	sem := make(chan struct{}, s.concurrency)

	for i, req := range reqs {
		sem <- struct{}{}
		if failFast && ctx.Err() != nil {
			<-sem
			break
		}

		wg.Add(1)
		go func(i int, req domain.OriginAndCallingPoints) {
			defer wg.Done()
			defer func() { <-sem }()

			board, err := s.ScrapeOrigin(ctx, req)
			if err != nil {
				results[i] = domain.ScrapeResult{Origin: req.OriginName, Err: err}
				if failFast {
					failOnce.Do(func() {
						failure = err
						cancel()
					})
				}
				return
			}
			results[i] = domain.ScrapeResult{Origin: req.OriginName, Board: &board}
		}(i, req)
	}
	wg.Wait()

	if failure != nil {
		return nil, failure
	}
	if failFast {
		// origins left unstarted because the caller's context ended
		for _, r := range results {
			if r.Board == nil {
				return nil, fmt.Errorf("scrape cancelled: %w", ctx.Err())
			}
		}
	}
	return results, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrLookupFailure):
		return metrics.OutcomeLookup
	case errors.Is(err, domain.ErrMalformedPayload):
		return metrics.OutcomeMalformed
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
