package usecases

import (
	"context"
	"fmt"
	"strings"

	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
	"shopify-pricer/internal/logging"
)

type EditPriceRulesService interface {
	Run(ctx context.Context, edits []pricing.SurchargeEdit) (model.RunReport, error)
}

type PriceRuleEditor struct {
	store    RuleTableStore
	recorder RunRecorder
	logger   logging.LoggerService
}

func NewEditPriceRules(store RuleTableStore, recorder RunRecorder, logger logging.LoggerService) EditPriceRulesService {
	return &PriceRuleEditor{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Run applies a batch of surcharge edits and saves the table. Invalid edits
// are reported one by one and never block the valid ones.
func (e *PriceRuleEditor) Run(ctx context.Context, edits []pricing.SurchargeEdit) (model.RunReport, error) {
	run := startRun(ctx, JobEditPriceRules, "local", e.recorder, e.logger)

	table, err := e.store.Load()
	if err != nil {
		if e.logger != nil {
			e.logger.LogError("Error load price rules", err)
		}
		return run.fail(ctx, err), err
	}

	updated, problems := pricing.ApplyEdits(table, edits)
	for _, problem := range problems {
		if e.logger != nil {
			e.logger.LogWarning("Rule edit rejected: " + problem.Error())
		}
	}

	submitted := 0
	for _, edit := range edits {
		if strings.TrimSpace(edit.Value) != "" {
			submitted++
		}
	}
	run.report.Failed = len(problems)
	run.report.Updated = submitted - len(problems)
	run.report.Skipped = len(edits) - submitted

	if err := e.store.Save(updated); err != nil {
		if e.logger != nil {
			e.logger.LogError("Error save price rules", err)
		}
		return run.fail(ctx, err), err
	}

	message := fmt.Sprintf("Local price table updated applied=%d rejected=%d", run.report.Updated, run.report.Failed)
	logCompletion(e.logger, run.report.Failed, message)
	return run.finish(ctx, completionStatus(run.report.Failed), message), nil
}
