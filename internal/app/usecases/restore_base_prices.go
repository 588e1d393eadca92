package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/adapters/shopify"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
	"shopify-pricer/internal/logging"
)

type RestoreBasePricesService interface {
	Run(ctx context.Context) (model.RunReport, error)
}

type BasePriceRestore struct {
	basePrices  shopify.BasePriceService
	definitions shopify.MetafieldDefinitionService
	snapshots   SnapshotSource
	recorder    RunRecorder
	logger      logging.LoggerService
}

// NewRestoreBasePrices builds the restore job. definitions may be nil.
func NewRestoreBasePrices(
	basePrices shopify.BasePriceService,
	definitions shopify.MetafieldDefinitionService,
	snapshots SnapshotSource,
	recorder RunRecorder,
	logger logging.LoggerService,
) RestoreBasePricesService {
	return &BasePriceRestore{
		basePrices:  basePrices,
		definitions: definitions,
		snapshots:   snapshots,
		recorder:    recorder,
		logger:      logger,
	}
}

// Run replays a snapshot onto the shop. Titles are looked up one at a time
// and only the first match is written. Per-title failures are counted and
// the run continues.
func (r *BasePriceRestore) Run(ctx context.Context) (model.RunReport, error) {
	run := startRun(ctx, JobRestoreBasePrices, "rest", r.recorder, r.logger)
	if r.logger != nil {
		r.logger.Log("Base price restore started")
	}

	snapshot, err := r.snapshots.Load()
	if err != nil {
		if r.logger != nil {
			r.logger.LogError("Error load base price snapshot", err)
		}
		return run.fail(ctx, err), err
	}
	ensureBasePriceDefinition(ctx, r.definitions, r.logger)

	titles := make([]string, 0, len(snapshot))
	for title := range snapshot {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			if r.logger != nil {
				r.logger.LogError("Base price restore interrupted", err)
			}
			return run.fail(ctx, err), err
		}

		found, err := r.restoreTitle(ctx, title, snapshot[title])
		switch {
		case err != nil:
			run.report.Failed++
			if r.logger != nil {
				r.logger.LogError(fmt.Sprintf("Error restore %q", title), err)
			}
		case !found:
			run.report.Skipped++
			if r.logger != nil {
				r.logger.LogWarning(fmt.Sprintf("Product not found: %q", title))
			}
		default:
			run.report.Updated++
			if r.logger != nil {
				r.logger.Log(fmt.Sprintf("Restored %q to %s", title, snapshot[title]))
			}
		}
	}

	message := fmt.Sprintf(
		"Base price restore completed restored=%d failed=%d not_found=%d",
		run.report.Updated,
		run.report.Failed,
		run.report.Skipped,
	)
	logCompletion(r.logger, run.report.Failed, message)
	return run.finish(ctx, completionStatus(run.report.Failed), message), nil
}

func (r *BasePriceRestore) restoreTitle(ctx context.Context, title string, value decimal.Decimal) (bool, error) {
	products, err := r.basePrices.FindProductsByTitle(ctx, title)
	if err != nil {
		return false, err
	}
	if len(products) == 0 {
		return false, nil
	}
	if len(products) > 1 && r.logger != nil {
		r.logger.LogWarning(fmt.Sprintf("Title %q matches %d products, restoring the first id=%s", title, len(products), products[0].ID))
	}
	product := products[0]

	existing, err := currentBasePrice(ctx, r.basePrices, product.ID)
	if err != nil {
		return false, err
	}
	if err := writeBasePrice(ctx, r.basePrices, product.ID, existing, value); err != nil {
		return false, err
	}
	return true, nil
}

// currentBasePrice keeps the metafield id of a malformed value so it can be
// overwritten.
func currentBasePrice(ctx context.Context, basePrices BasePriceReader, productID string) (*model.BasePrice, error) {
	existing, err := basePrices.ProductBasePrice(ctx, productID)
	if err != nil {
		var dataErr *pricing.DataError
		if !errors.As(err, &dataErr) || existing == nil {
			return nil, err
		}
		return &model.BasePrice{MetafieldID: existing.MetafieldID}, nil
	}
	return existing, nil
}

func writeBasePrice(ctx context.Context, basePrices shopify.BasePriceService, productID string, existing *model.BasePrice, value decimal.Decimal) error {
	if existing != nil && existing.MetafieldID != "" {
		return basePrices.UpdateBasePrice(ctx, existing.MetafieldID, value)
	}
	return basePrices.CreateBasePrice(ctx, productID, value)
}

// ensureBasePriceDefinition is best effort: REST metafield writes work
// without a definition, the admin just shows the value untyped.
func ensureBasePriceDefinition(ctx context.Context, definitions shopify.MetafieldDefinitionService, logger logging.LoggerService) {
	if definitions == nil {
		return
	}
	created, err := definitions.EnsureBasePriceDefinition(ctx)
	if logger == nil {
		return
	}
	switch {
	case err != nil:
		logger.LogWarning("Base price metafield definition not checked: " + err.Error())
	case created:
		logger.Log("Base price metafield definition created")
	}
}
