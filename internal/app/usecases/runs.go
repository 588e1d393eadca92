package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopify-pricer/internal/adapters/shopify"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/logging"
)

const (
	JobSyncPrices        = "sync-prices"
	JobBackupBasePrices  = "backup-base-prices"
	JobRestoreBasePrices = "restore-base-prices"
	JobAdjustBasePrices  = "adjust-base-prices"
	JobEditPriceRules    = "edit-price-rules"
)

// ProductCatalog is satisfied by *shopify.Client.
type ProductCatalog interface {
	RESTProducts() shopify.Paginator
	GraphQLProducts() shopify.Paginator
}

type BasePriceReader interface {
	ProductBasePrice(ctx context.Context, productID string) (*model.BasePrice, error)
}

type RuleTableSource interface {
	Load() (model.PriceRuleTable, error)
}

type RuleTableStore interface {
	RuleTableSource
	Save(table model.PriceRuleTable) error
}

type SnapshotSource interface {
	Load() (model.PriceBackupSnapshot, error)
}

type SnapshotSink interface {
	Save(snapshot model.PriceBackupSnapshot) error
}

// RunRecorder persists finished run reports. Optional everywhere.
type RunRecorder interface {
	Record(ctx context.Context, report model.RunReport) error
}

// RunHistory is implemented by recorders that can read back earlier runs.
type RunHistory interface {
	Recent(ctx context.Context, job string, limit int) ([]model.RunReport, error)
}

type runTracker struct {
	report   model.RunReport
	recorder RunRecorder
	logger   logging.LoggerService
	now      func() time.Time
}

func startRun(ctx context.Context, job, mode string, recorder RunRecorder, logger logging.LoggerService) *runTracker {
	logPreviousRun(ctx, job, recorder, logger)
	now := func() time.Time { return time.Now().UTC() }
	return &runTracker{
		report: model.RunReport{
			RunID:     uuid.NewString(),
			Job:       job,
			Mode:      mode,
			StartedAt: now(),
			Status:    model.RunStatusStarted,
		},
		recorder: recorder,
		logger:   logger,
		now:      now,
	}
}

func logPreviousRun(ctx context.Context, job string, recorder RunRecorder, logger logging.LoggerService) {
	history, ok := recorder.(RunHistory)
	if !ok || logger == nil {
		return
	}
	reports, err := history.Recent(ctx, job, 1)
	if err != nil {
		logger.LogWarning(fmt.Sprintf("Run history not read job=%s: %v", job, err))
		return
	}
	if len(reports) == 0 {
		return
	}
	last := reports[0]
	logger.Log(fmt.Sprintf(
		"Previous run run_id=%s status=%s finished_at=%s updated=%d failed=%d skipped=%d",
		last.RunID,
		last.Status,
		last.FinishedAt.Format(time.RFC3339),
		last.Updated,
		last.Failed,
		last.Skipped,
	))
}

// finish stamps the report and hands it to the recorder. A failed write to
// the run history is logged and never changes the outcome of the run.
func (r *runTracker) finish(ctx context.Context, status, message string) model.RunReport {
	r.report.FinishedAt = r.now()
	r.report.Status = status
	r.report.Message = message

	if r.recorder != nil {
		if err := r.recorder.Record(context.WithoutCancel(ctx), r.report); err != nil && r.logger != nil {
			r.logger.LogWarning(fmt.Sprintf("Run history not recorded run_id=%s: %v", r.report.RunID, err))
		}
	}
	return r.report
}

func (r *runTracker) fail(ctx context.Context, err error) model.RunReport {
	return r.finish(ctx, model.RunStatusFailed, err.Error())
}

func completionStatus(failed int) string {
	if failed > 0 {
		return model.RunStatusPartial
	}
	return model.RunStatusSuccess
}

func logCompletion(logger logging.LoggerService, failed int, message string) {
	if logger == nil {
		return
	}
	if failed > 0 {
		logger.LogWarning(message)
		return
	}
	logger.LogSuccess(message)
}
