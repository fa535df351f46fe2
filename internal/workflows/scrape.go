package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/usecases"
)

// ScrapePublishInput is the input for the scrape workflow.
type ScrapePublishInput struct {
	Mode usecases.ScrapeMode
}

// ScrapePublishWorkflow loads the configured origins, scrapes them and
// publishes the boards. Scraping runs once; publishing is retried.
func ScrapePublishWorkflow(ctx workflow.Context, input ScrapePublishInput) (*usecases.RunReport, error) {
	logger := workflow.GetLogger(ctx)
	if input.Mode == "" {
		input.Mode = usecases.ModeFailFast
	}
	report := &usecases.RunReport{
		RunID:  workflow.GetInfo(ctx).WorkflowExecution.RunID,
		Failed: []usecases.FailedOrigin{},
	}
	logger.Info("Starting scrape workflow", "mode", string(input.Mode))

	loadCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})
	var reqs []domain.OriginAndCallingPoints
	if err := workflow.ExecuteActivity(loadCtx, "LoadRequests").Get(ctx, &reqs); err != nil {
		return report, err
	}

	// Each upstream call already retries with backoff.
	scrapeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	var out ScrapeOutput
	err := workflow.ExecuteActivity(scrapeCtx, "ScrapeOrigins", ScrapeInput{Requests: reqs, Mode: input.Mode}).Get(ctx, &out)
	if err != nil {
		logger.Error("scrape failed, nothing published", "error", err)
		return report, err
	}
	report.Failed = append(report.Failed, out.Failed...)

	if len(out.Boards) > 0 {
		publishCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: 30 * time.Second,
			RetryPolicy: &temporal.RetryPolicy{
				InitialInterval: time.Second,
				MaximumAttempts: 3,
			},
		})
		if err := workflow.ExecuteActivity(publishCtx, "PublishBoards", out.Boards).Get(ctx, nil); err != nil {
			return report, err
		}
	}
	report.Published = len(out.Boards)

	logger.Info("Scrape workflow finished", "published", report.Published, "failed", len(report.Failed))
	return report, nil
}
