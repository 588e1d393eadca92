package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/adapters/shopify"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
	"shopify-pricer/internal/logging"
)

type AdjustBasePricesService interface {
	Run(ctx context.Context) (model.RunReport, error)
}

type AdjustOptions struct {
	Percentage  decimal.Decimal
	Eligibility pricing.Eligibility
	DryRun      bool
}

func (o AdjustOptions) String() string {
	return fmt.Sprintf("percentage=%s eligibility=%s dry_run=%t", o.Percentage, o.Eligibility, o.DryRun)
}

type BasePriceAdjust struct {
	catalog     ProductCatalog
	basePrices  shopify.BasePriceService
	definitions shopify.MetafieldDefinitionService
	options     AdjustOptions
	recorder    RunRecorder
	logger      logging.LoggerService
}

// NewAdjustBasePrices builds the adjustment job. definitions may be nil.
func NewAdjustBasePrices(
	catalog ProductCatalog,
	basePrices shopify.BasePriceService,
	definitions shopify.MetafieldDefinitionService,
	options AdjustOptions,
	recorder RunRecorder,
	logger logging.LoggerService,
) AdjustBasePricesService {
	return &BasePriceAdjust{
		catalog:     catalog,
		basePrices:  basePrices,
		definitions: definitions,
		options:     options,
		recorder:    recorder,
		logger:      logger,
	}
}

// Run rewrites base prices from the first variant's current price scaled by
// the percentage and nice rounded. Products without a base price get one.
func (a *BasePriceAdjust) Run(ctx context.Context) (model.RunReport, error) {
	run := startRun(ctx, JobAdjustBasePrices, a.options.String(), a.recorder, a.logger)
	if a.logger != nil {
		a.logger.Log("Base price adjustment started " + a.options.String())
	}
	if !a.options.DryRun {
		ensureBasePriceDefinition(ctx, a.definitions, a.logger)
	}

	pager := a.catalog.RESTProducts()
	for page := 1; !pager.Done(); page++ {
		products, err := pager.Next(ctx)
		if err != nil {
			if a.logger != nil {
				a.logger.LogError(fmt.Sprintf("Error fetch products page=%d", page), err)
			}
			return run.fail(ctx, err), err
		}

		for _, product := range products {
			if !a.options.Eligibility.Allows(product) || len(product.Variants) == 0 {
				run.report.Skipped++
				continue
			}
			changed, err := a.adjust(ctx, product)
			var dataErr *pricing.DataError
			switch {
			case errors.As(err, &dataErr):
				run.report.Skipped++
				if a.logger != nil {
					a.logger.LogWarning(fmt.Sprintf("Skip %q: %v", product.Title, err))
				}
			case err != nil:
				run.report.Failed++
				if a.logger != nil {
					a.logger.LogError(fmt.Sprintf("Error adjust base price of %q", product.Title), err)
				}
			case !changed:
				run.report.Skipped++
			default:
				run.report.Updated++
			}
		}
	}

	verb := "updated"
	if a.options.DryRun {
		verb = "would_update"
	}
	message := fmt.Sprintf(
		"Base price adjustment completed %s=%d failed=%d skipped=%d",
		verb,
		run.report.Updated,
		run.report.Failed,
		run.report.Skipped,
	)
	logCompletion(a.logger, run.report.Failed, message)
	return run.finish(ctx, completionStatus(run.report.Failed), message), nil
}

func (a *BasePriceAdjust) adjust(ctx context.Context, product model.Product) (bool, error) {
	original, err := pricing.OriginalPrice(product)
	if err != nil {
		return false, err
	}
	target := pricing.AdjustedBasePrice(original, a.options.Percentage)

	existing, err := currentBasePrice(ctx, a.basePrices, product.ID)
	if err != nil {
		return false, err
	}
	if existing != nil && existing.Value.Equal(target) {
		return false, nil
	}

	current := "none"
	if existing != nil {
		current = existing.Value.String()
	}
	if a.options.DryRun {
		if a.logger != nil {
			a.logger.Log(fmt.Sprintf("Dry run: %q base price %s -> %s", product.Title, current, target))
		}
		return true, nil
	}

	if err := writeBasePrice(ctx, a.basePrices, product.ID, existing, target); err != nil {
		return false, err
	}
	if a.logger != nil {
		a.logger.Log(fmt.Sprintf("Adjusted %q base price %s -> %s", product.Title, current, target))
	}
	return true, nil
}
