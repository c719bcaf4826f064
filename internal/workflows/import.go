package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/motmap/internal/pkg/seed"
)

// ImportInput is the input for the import workflow.
type ImportInput struct {
	Source  string // file name, for logs
	Records []seed.Record
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	Created []int64
	Skipped int
}

// ImportRestaurantsWorkflow creates every record through the restaurant
// service. Records whose (name, address) already exists are skipped. If a
// record fails for good, every restaurant created by this run is deleted
// again (saga compensation) and the workflow fails.
func ImportRestaurantsWorkflow(ctx workflow.Context, input ImportInput) (*ImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting restaurant import", "source", input.Source, "records", len(input.Records))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{ErrTypeInvalidRecord},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	result := &ImportResult{}
	for i, rec := range input.Records {
		var out CreateOutcome
		err := workflow.ExecuteActivity(ctx, "CreateRestaurant", rec).Get(ctx, &out)
		if err != nil {
			logger.Warn("import failed, compensating", "record", i, "created", len(result.Created), "error", err)
			compensate(ctx, result.Created)
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
		}
		if out.Skipped {
			result.Skipped++
			continue
		}
		result.Created = append(result.Created, out.ID)
	}

	logger.Info("Restaurant import finished", "created", len(result.Created), "skipped", result.Skipped)
	return result, nil
}

// compensate deletes created restaurants, newest first. Failures are logged
// and do not stop the rollback.
func compensate(ctx workflow.Context, ids []int64) {
	logger := workflow.GetLogger(ctx)
	for i := len(ids) - 1; i >= 0; i-- {
		if err := workflow.ExecuteActivity(ctx, "DeleteRestaurant", ids[i]).Get(ctx, nil); err != nil {
			logger.Error("rollback delete failed", "id", ids[i], "error", err)
		}
	}
}
