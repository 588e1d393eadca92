package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"shopify-pricer/internal/domain/model"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS price_sync_runs (
	run_id VARCHAR(36) NOT NULL PRIMARY KEY,
	job VARCHAR(64) NOT NULL,
	mode VARCHAR(64) NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	updated INT NOT NULL,
	failed INT NOT NULL,
	skipped INT NOT NULL,
	bulk_operation_id VARCHAR(255) NOT NULL,
	status VARCHAR(16) NOT NULL,
	message TEXT NOT NULL
)`

const insertRun = `
INSERT INTO price_sync_runs
	(run_id, job, mode, started_at, finished_at, updated, failed, skipped, bulk_operation_id, status, message)
VALUES
	(:run_id, :job, :mode, :started_at, :finished_at, :updated, :failed, :skipped, :bulk_operation_id, :status, :message)`

const selectRecentRuns = `
SELECT run_id, job, mode, started_at, finished_at, updated, failed, skipped, bulk_operation_id, status, message
FROM price_sync_runs
WHERE job = ?
ORDER BY started_at DESC
LIMIT ?`

type runRow struct {
	RunID           string    `db:"run_id"`
	Job             string    `db:"job"`
	Mode            string    `db:"mode"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
	Updated         int       `db:"updated"`
	Failed          int       `db:"failed"`
	Skipped         int       `db:"skipped"`
	BulkOperationID string    `db:"bulk_operation_id"`
	Status          string    `db:"status"`
	Message         string    `db:"message"`
}

// RunRepository stores one row per finished job run.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRunsTable); err != nil {
		return fmt.Errorf("mysql: create price_sync_runs %w", err)
	}
	return nil
}

func (r *RunRepository) Record(ctx context.Context, report model.RunReport) error {
	row := runRow{
		RunID:           report.RunID,
		Job:             report.Job,
		Mode:            report.Mode,
		StartedAt:       report.StartedAt.UTC(),
		FinishedAt:      report.FinishedAt.UTC(),
		Updated:         report.Updated,
		Failed:          report.Failed,
		Skipped:         report.Skipped,
		BulkOperationID: report.BulkOperationID,
		Status:          report.Status,
		Message:         report.Message,
	}
	if _, err := r.db.NamedExecContext(ctx, insertRun, row); err != nil {
		return fmt.Errorf("mysql: insert run %s %w", report.RunID, err)
	}
	return nil
}

func (r *RunRepository) Recent(ctx context.Context, job string, limit int) ([]model.RunReport, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, selectRecentRuns, job, limit); err != nil {
		return nil, fmt.Errorf("mysql: select runs %w", err)
	}
	reports := make([]model.RunReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, model.RunReport{
			RunID:           row.RunID,
			Job:             row.Job,
			Mode:            row.Mode,
			StartedAt:       row.StartedAt,
			FinishedAt:      row.FinishedAt,
			Updated:         row.Updated,
			Failed:          row.Failed,
			Skipped:         row.Skipped,
			BulkOperationID: row.BulkOperationID,
			Status:          row.Status,
			Message:         row.Message,
		})
	}
	return reports, nil
}
