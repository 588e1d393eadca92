package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shopify-pricer/internal/adapters/shopify"
	"shopify-pricer/internal/adapters/storage/localfs"
	"shopify-pricer/internal/config"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
	"shopify-pricer/internal/logging"
)

type SyncPricesService interface {
	Run(ctx context.Context) (model.RunReport, error)
}

// SyncMode selects the write transport and which products are considered.
type SyncMode struct {
	Transport   string
	Eligibility pricing.Eligibility
}

func (m SyncMode) String() string {
	return fmt.Sprintf("transport=%s eligibility=%s", m.Transport, m.Eligibility)
}

type SyncPricesDeps struct {
	Catalog    ProductCatalog
	BasePrices BasePriceReader
	Variants   shopify.VariantPriceService
	Bulk       shopify.BulkService
	Rules      RuleTableSource
	// PayloadFile keeps a local copy of the bulk JSONL when set.
	PayloadFile string
	Recorder    RunRecorder
}

type PriceSync struct {
	deps   SyncPricesDeps
	mode   SyncMode
	logger logging.LoggerService
}

func NewSyncPrices(deps SyncPricesDeps, mode SyncMode, logger logging.LoggerService) SyncPricesService {
	return &PriceSync{
		deps:   deps,
		mode:   mode,
		logger: logger,
	}
}

func (s *PriceSync) Run(ctx context.Context) (model.RunReport, error) {
	run := startRun(ctx, JobSyncPrices, s.mode.String(), s.deps.Recorder, s.logger)
	if s.logger != nil {
		s.logger.Log("Price sync started " + s.mode.String())
	}

	rules, err := s.deps.Rules.Load()
	if err != nil {
		if s.logger != nil {
			s.logger.LogError("Error load price rules", err)
		}
		return run.fail(ctx, err), err
	}
	calc := pricing.NewCalculator(rules)
	for _, category := range model.Categories {
		if !calc.HasRules(category) && s.logger != nil {
			s.logger.LogWarning(fmt.Sprintf("Price rules for %q are empty, its products are skipped", category))
		}
	}

	switch s.mode.Transport {
	case config.TransportREST:
		return s.runREST(ctx, run, calc)
	case config.TransportBulk:
		return s.runBulk(ctx, run, calc)
	default:
		err := fmt.Errorf("unknown sync transport %q", s.mode.Transport)
		if s.logger != nil {
			s.logger.LogError("Price sync aborted", err)
		}
		return run.fail(ctx, err), err
	}
}

// runREST writes each variant with its own PUT. A failed write is counted
// and the loop moves on; a failed page fetch ends the run.
func (s *PriceSync) runREST(ctx context.Context, run *runTracker, calc *pricing.Calculator) (model.RunReport, error) {
	pager := s.deps.Catalog.RESTProducts()
	for page := 1; !pager.Done(); page++ {
		products, err := pager.Next(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.LogError(fmt.Sprintf("Error fetch products page=%d", page), err)
			}
			return run.fail(ctx, err), err
		}

		for _, product := range products {
			prices := s.restPrices(ctx, run, calc, product)
			for _, price := range prices {
				if err := s.deps.Variants.UpdateVariantPrice(ctx, price.VariantID, price.Price); err != nil {
					run.report.Failed++
					if s.logger != nil {
						s.logger.LogError(fmt.Sprintf("Error update variant %s (%s) of %q", price.VariantID, price.VariantTitle, product.Title), err)
					}
					continue
				}
				run.report.Updated++
			}
		}

		if err := ctx.Err(); err != nil {
			if s.logger != nil {
				s.logger.LogError("Price sync interrupted", err)
			}
			return run.fail(ctx, err), err
		}
	}

	message := fmt.Sprintf(
		"Price sync completed updated=%d failed=%d skipped_products=%d",
		run.report.Updated,
		run.report.Failed,
		run.report.Skipped,
	)
	logCompletion(s.logger, run.report.Failed, message)
	return run.finish(ctx, completionStatus(run.report.Failed), message), nil
}

// restPrices classifies before reading the metafield so unclassified
// products cost no extra request.
func (s *PriceSync) restPrices(ctx context.Context, run *runTracker, calc *pricing.Calculator, product model.Product) []pricing.VariantPrice {
	if !s.mode.Eligibility.Allows(product) {
		run.report.Skipped++
		return nil
	}
	if category, ok := pricing.Category(product); !ok || !calc.HasRules(category) {
		run.report.Skipped++
		return nil
	}

	if product.BasePrice == nil {
		base, err := s.deps.BasePrices.ProductBasePrice(ctx, product.ID)
		if err != nil {
			var dataErr *pricing.DataError
			if errors.As(err, &dataErr) {
				run.report.Skipped++
				if s.logger != nil {
					s.logger.LogWarning(fmt.Sprintf("Skip %q: %v", product.Title, err))
				}
				return nil
			}
			run.report.Failed++
			if s.logger != nil {
				s.logger.LogError(fmt.Sprintf("Error fetch base price of %q", product.Title), err)
			}
			return nil
		}
		product.BasePrice = base
	}

	prices := calc.Prices(product)
	if len(prices) == 0 {
		run.report.Skipped++
	}
	return prices
}

// runBulk prices the whole catalog in memory, then hands the writes to a
// Shopify bulk operation. The job's completion is not observed.
func (s *PriceSync) runBulk(ctx context.Context, run *runTracker, calc *pricing.Calculator) (model.RunReport, error) {
	var records []model.BulkUpdateRecord
	pager := s.deps.Catalog.GraphQLProducts()
	for page := 1; !pager.Done(); page++ {
		products, err := pager.Next(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.LogError(fmt.Sprintf("Error fetch products page=%d", page), err)
			}
			return run.fail(ctx, err), err
		}
		for _, product := range products {
			if !s.mode.Eligibility.Allows(product) {
				run.report.Skipped++
				continue
			}
			prices := calc.Prices(product)
			if len(prices) == 0 {
				run.report.Skipped++
				continue
			}
			for _, price := range prices {
				records = append(records, model.BulkUpdateRecord{VariantID: price.VariantID, Price: price.Price})
			}
		}
	}

	if len(records) == 0 {
		message := fmt.Sprintf("Price sync skipped: no eligible variants, bulk job not submitted skipped_products=%d", run.report.Skipped)
		if s.logger != nil {
			s.logger.LogWarning(message)
		}
		return run.finish(ctx, model.RunStatusNoop, message), nil
	}

	payload, err := shopify.BuildBulkPayload(records)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError("Error build bulk payload", err)
		}
		return run.fail(ctx, err), err
	}
	if s.deps.PayloadFile != "" {
		if err := localfs.WriteBulkPayload(s.deps.PayloadFile, payload); err != nil && s.logger != nil {
			s.logger.LogWarning(fmt.Sprintf("Bulk payload copy not written to %s: %v", s.deps.PayloadFile, err))
		}
	}

	filename := fmt.Sprintf("variant-prices-%s.jsonl", uuid.NewString())
	stagedPath, err := s.deps.Bulk.StageBulkUpload(ctx, filename, payload)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError("Error stage bulk upload, bulk job not submitted", err)
		}
		return run.fail(ctx, err), err
	}

	op, err := s.deps.Bulk.RunBulkMutation(ctx, shopify.VariantPriceMutation, stagedPath)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError("Error submit bulk mutation", err)
		}
		return run.fail(ctx, err), err
	}

	run.report.BulkOperationID = op.ID
	message := fmt.Sprintf(
		"Bulk price job started id=%s status=%s variants=%d skipped_products=%d",
		op.ID,
		op.Status,
		len(records),
		run.report.Skipped,
	)
	if s.logger != nil {
		s.logger.LogSuccess(message)
	}
	return run.finish(ctx, model.RunStatusStarted, message), nil
}
