package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/ports"
	"github.com/samirrijal/railboard/internal/core/usecases"
)

// ScrapeInput is the input of the ScrapeOrigins activity.
type ScrapeInput struct {
	Requests []domain.OriginAndCallingPoints
	Mode     usecases.ScrapeMode
}

// ScrapeOutput is the result of the ScrapeOrigins activity.
type ScrapeOutput struct {
	Boards []domain.StationAndServices
	Failed []usecases.FailedOrigin
}

// ScrapeActivities holds the activity implementations for the scrape workflow.
type ScrapeActivities struct {
	Config    ports.ConfigSource
	Scraper   *usecases.ScrapeService
	Publisher ports.BoardPublisher
}

// LoadRequests reads the configured origins and their calling points.
func (a *ScrapeActivities) LoadRequests(ctx context.Context) ([]domain.OriginAndCallingPoints, error) {
	reqs, err := a.Config.OriginsAndCallingPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load origins: %w", err)
	}
	return reqs, nil
}

// ScrapeOrigins scrapes every request. In fail-fast mode the first failure
// fails the activity without retry; in best-effort mode failures are
// returned alongside the boards.
func (a *ScrapeActivities) ScrapeOrigins(ctx context.Context, in ScrapeInput) (*ScrapeOutput, error) {
	out := &ScrapeOutput{Boards: []domain.StationAndServices{}, Failed: []usecases.FailedOrigin{}}

	if in.Mode == usecases.ModeBestEffort {
		for _, r := range a.Scraper.ScrapeAll(ctx, in.Requests) {
			if !r.OK() {
				out.Failed = append(out.Failed, usecases.FailedOrigin{Origin: r.Origin, Error: r.Err.Error()})
				continue
			}
			out.Boards = append(out.Boards, *r.Board)
		}
		return out, nil
	}

	boards, err := a.Scraper.Scrape(ctx, in.Requests)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "ScrapeFailed", err)
	}
	out.Boards = boards
	return out, nil
}

// PublishBoards hands the boards to the configured publisher.
func (a *ScrapeActivities) PublishBoards(ctx context.Context, boards []domain.StationAndServices) error {
	if a.Publisher == nil {
		slog.Warn("no publisher configured, dropping boards", "boards", len(boards))
		return nil
	}
	if err := a.Publisher.Publish(ctx, boards); err != nil {
		return fmt.Errorf("publish boards: %w", err)
	}
	return nil
}
