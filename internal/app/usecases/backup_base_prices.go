package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopify-pricer/internal/adapters/storage/localfs"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
	"shopify-pricer/internal/logging"
)

type BackupBasePricesService interface {
	Run(ctx context.Context) (model.RunReport, error)
}

type BasePriceBackup struct {
	catalog    ProductCatalog
	basePrices BasePriceReader
	snapshots  SnapshotSink
	xlsxPath   string
	recorder   RunRecorder
	logger     logging.LoggerService
}

// NewBackupBasePrices builds the backup job. xlsxPath is optional; when set
// the snapshot is also exported as a spreadsheet.
func NewBackupBasePrices(
	catalog ProductCatalog,
	basePrices BasePriceReader,
	snapshots SnapshotSink,
	xlsxPath string,
	recorder RunRecorder,
	logger logging.LoggerService,
) BackupBasePricesService {
	return &BasePriceBackup{
		catalog:    catalog,
		basePrices: basePrices,
		snapshots:  snapshots,
		xlsxPath:   strings.TrimSpace(xlsxPath),
		recorder:   recorder,
		logger:     logger,
	}
}

// Run snapshots every base price keyed by product title. A page fetch
// failure aborts before anything is written, so an older snapshot is never
// replaced by a partial one.
func (b *BasePriceBackup) Run(ctx context.Context) (model.RunReport, error) {
	run := startRun(ctx, JobBackupBasePrices, "rest", b.recorder, b.logger)
	if b.logger != nil {
		b.logger.Log("Base price backup started")
	}

	snapshot := model.PriceBackupSnapshot{}
	pager := b.catalog.RESTProducts()
	for page := 1; !pager.Done(); page++ {
		products, err := pager.Next(ctx)
		if err != nil {
			if b.logger != nil {
				b.logger.LogError(fmt.Sprintf("Error fetch products page=%d", page), err)
			}
			return run.fail(ctx, err), err
		}

		for _, product := range products {
			base, err := b.basePrices.ProductBasePrice(ctx, product.ID)
			if err != nil {
				var dataErr *pricing.DataError
				if errors.As(err, &dataErr) {
					run.report.Skipped++
					if b.logger != nil {
						b.logger.LogWarning(fmt.Sprintf("Skip %q: %v", product.Title, err))
					}
					continue
				}
				run.report.Failed++
				if b.logger != nil {
					b.logger.LogError(fmt.Sprintf("Error fetch base price of %q", product.Title), err)
				}
				continue
			}
			if base == nil {
				run.report.Skipped++
				continue
			}
			if previous, exists := snapshot[product.Title]; exists && b.logger != nil {
				b.logger.LogWarning(fmt.Sprintf("Duplicate title %q: base price %s replaced by %s", product.Title, previous, base.Value))
			}
			snapshot[product.Title] = base.Value
		}
	}

	if err := b.snapshots.Save(snapshot); err != nil {
		if b.logger != nil {
			b.logger.LogError("Error save base price snapshot", err)
		}
		return run.fail(ctx, err), err
	}
	run.report.Updated = len(snapshot)

	if b.xlsxPath != "" {
		if err := localfs.WriteSnapshotSheet(b.xlsxPath, snapshot); err != nil {
			run.report.Failed++
			if b.logger != nil {
				b.logger.LogError("Error export base price spreadsheet", err)
			}
		}
	}

	message := fmt.Sprintf(
		"Base price backup completed saved=%d failed=%d skipped=%d",
		run.report.Updated,
		run.report.Failed,
		run.report.Skipped,
	)
	logCompletion(b.logger, run.report.Failed, message)
	return run.finish(ctx, completionStatus(run.report.Failed), message), nil
}
