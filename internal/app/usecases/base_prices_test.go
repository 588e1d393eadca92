package usecases

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
)

func TestBackupCollectsBasePricesByTitle(t *testing.T) {
	shop := newFakeShop()
	shop.basePrices["1"] = &model.BasePrice{MetafieldID: "7", Value: dec("149.9")}
	shop.basePrices["2"] = &model.BasePrice{MetafieldID: "8", Value: dec("10")}
	shop.basePrices["3"] = &model.BasePrice{MetafieldID: "9", Value: dec("12")}
	shop.malformed["5"] = "55"
	shop.baseErrors["6"] = errBoom

	catalog := &fakeCatalog{rest: &fakePager{pages: [][]model.Product{
		{{ID: "1", Title: "Gold Chain"}, {ID: "2", Title: "Twin"}},
		{},
		{{ID: "3", Title: "Twin"}, {ID: "4", Title: "No base"}, {ID: "5", Title: "Broken"}, {ID: "6", Title: "Flaky"}},
	}}}
	snapshots := &memSnapshots{}
	xlsxPath := filepath.Join(t.TempDir(), "backup.xlsx")
	logger := &captureLogger{}

	report, err := NewBackupBasePrices(catalog, shop, snapshots, xlsxPath, nil, logger).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.PriceBackupSnapshot{"Gold Chain": dec("149.9"), "Twin": dec("12")}, snapshots.snapshot)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, model.RunStatusPartial, report.Status)
	assert.Contains(t, logger.joined(), `Duplicate title "Twin"`)

	book, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Base prices")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestBackupPageFailureKeepsOldSnapshot(t *testing.T) {
	catalog := &fakeCatalog{rest: &fakePager{pages: [][]model.Product{nil}, failAt: 1, err: errBoom}}
	snapshots := &memSnapshots{snapshot: model.PriceBackupSnapshot{"Old": dec("1")}}

	report, err := NewBackupBasePrices(catalog, newFakeShop(), snapshots, "", nil, &captureLogger{}).Run(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, model.RunStatusFailed, report.Status)
	assert.Zero(t, snapshots.saves)
}

func TestRestoreCreatesOrUpdatesFirstMatch(t *testing.T) {
	shop := newFakeShop()
	shop.byTitle["Gold Chain"] = []model.Product{{ID: "3", Title: "Gold Chain"}}
	shop.byTitle["Twin"] = []model.Product{{ID: "4", Title: "Twin"}, {ID: "5", Title: "Twin"}}
	shop.byTitle["Broken"] = []model.Product{{ID: "6", Title: "Broken"}}
	shop.byTitle["Locked"] = []model.Product{{ID: "8", Title: "Locked"}}
	shop.basePrices["4"] = &model.BasePrice{MetafieldID: "40", Value: dec("1")}
	shop.malformed["6"] = "60"
	shop.baseErrors["title:Flaky"] = errBoom
	shop.writeErrors["8"] = errBoom

	snapshots := &memSnapshots{snapshot: model.PriceBackupSnapshot{
		"Gold Chain": dec("150.0"),
		"Twin":       dec("20"),
		"Broken":     dec("30"),
		"Missing":    dec("40"),
		"Flaky":      dec("50"),
		"Locked":     dec("60"),
	}}
	recorder := &recordingRecorder{}
	logger := &captureLogger{}

	report, err := NewRestoreBasePrices(shop, shop, snapshots, recorder, logger).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, shop.created["3"].Equal(dec("150")))
	assert.True(t, shop.updated["40"].Equal(dec("20")))
	assert.True(t, shop.updated["60"].Equal(dec("30")))
	assert.NotContains(t, shop.updated, "5")
	assert.NotContains(t, shop.created, "5")

	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, model.RunStatusPartial, report.Status)
	require.Len(t, recorder.reports, 1)

	assert.Equal(t, 1, shop.definitionRuns)

	joined := logger.joined()
	assert.Contains(t, joined, "Base price metafield definition created")
	assert.Contains(t, joined, `Product not found: "Missing"`)
	assert.Contains(t, joined, `Title "Twin" matches 2 products`)
}

func TestRestoreContinuesWhenDefinitionCheckFails(t *testing.T) {
	shop := newFakeShop()
	shop.definitionErr = errBoom
	shop.byTitle["Gold Chain"] = []model.Product{{ID: "3", Title: "Gold Chain"}}
	logger := &captureLogger{}

	report, err := NewRestoreBasePrices(shop, shop, &memSnapshots{snapshot: model.PriceBackupSnapshot{"Gold Chain": dec("150")}}, nil, logger).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Contains(t, logger.joined(), "Base price metafield definition not checked")
}

func TestRestoreSnapshotLoadFailure(t *testing.T) {
	_, err := NewRestoreBasePrices(newFakeShop(), nil, &memSnapshots{loadErr: errBoom}, nil, nil).Run(context.Background())
	require.ErrorIs(t, err, errBoom)
}

func TestAdjustRewritesBasePrices(t *testing.T) {
	shop := newFakeShop()
	shop.basePrices["1"] = &model.BasePrice{MetafieldID: "10", Value: dec("100")}
	shop.basePrices["3"] = &model.BasePrice{MetafieldID: "30", Value: dec("190")}
	shop.malformed["4"] = "40"

	catalog := &fakeCatalog{rest: &fakePager{pages: [][]model.Product{{
		tagged("1", "Gold Chain", "bracelet, chaine_update", model.Variant{ID: "11", Price: dec("130")}, model.Variant{ID: "12", Price: dec("999")}),
		tagged("2", "New", "chaine_update", model.Variant{ID: "21", Price: dec("150")}),
		tagged("3", "Stable", "chaine_update", model.Variant{ID: "31", Price: dec("172.73")}),
		tagged("4", "Broken", "chaine_update", model.Variant{ID: "41", Price: dec("100")}),
		tagged("5", "Untagged", "bracelet", model.Variant{ID: "51", Price: dec("100")}),
		tagged("6", "Empty", "chaine_update"),
	}}}}

	options := AdjustOptions{Percentage: dec("10"), Eligibility: pricing.EligibleTagged}
	report, err := NewAdjustBasePrices(catalog, shop, shop, options, nil, &captureLogger{}).Run(context.Background())
	require.NoError(t, err)

	// 130 * 1.1 = 143 -> 190; 150 * 1.1 = 165 -> 190; 172.73 * 1.1 = 190.003 -> 190; 100 * 1.1 = 110 -> 100
	assert.Equal(t, "190", shop.updated["10"].String())
	assert.Equal(t, "190", shop.created["2"].String())
	assert.NotContains(t, shop.updated, "30")
	assert.Equal(t, "100", shop.updated["40"].String())
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, model.RunStatusSuccess, report.Status)
}

func TestAdjustSkipsMalformedVariantPrice(t *testing.T) {
	shop := newFakeShop()
	shop.basePrices["1"] = &model.BasePrice{MetafieldID: "10", Value: dec("100")}
	catalog := &fakeCatalog{rest: &fakePager{pages: [][]model.Product{{
		tagged("1", "Gold Chain", "bracelet", model.Variant{ID: "11", PriceMalformed: true}, model.Variant{ID: "12", Price: dec("130")}),
	}}}}
	logger := &captureLogger{}

	options := AdjustOptions{Percentage: dec("10"), Eligibility: pricing.EligibleAll}
	report, err := NewAdjustBasePrices(catalog, shop, shop, options, nil, logger).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, shop.updated)
	assert.Empty(t, shop.created)
	assert.Zero(t, shop.baseReads)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Contains(t, logger.joined(), `Skip "Gold Chain": invalid price of variant 11: not a decimal`)
}

func TestAdjustDryRunWritesNothing(t *testing.T) {
	shop := newFakeShop()
	shop.basePrices["1"] = &model.BasePrice{MetafieldID: "10", Value: dec("100")}
	catalog := &fakeCatalog{rest: &fakePager{pages: [][]model.Product{{
		tagged("1", "Gold Chain", "bracelet", model.Variant{ID: "11", Price: dec("130")}),
	}}}}
	logger := &captureLogger{}

	options := AdjustOptions{Percentage: dec("10"), Eligibility: pricing.EligibleAll, DryRun: true}
	report, err := NewAdjustBasePrices(catalog, shop, shop, options, nil, logger).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, shop.updated)
	assert.Empty(t, shop.created)
	assert.Zero(t, shop.definitionRuns)
	assert.Equal(t, 1, report.Updated)
	assert.Contains(t, report.Message, "would_update=1")
	assert.Contains(t, report.Mode, "dry_run=true")
	assert.Contains(t, logger.joined(), `Dry run: "Gold Chain" base price 100 -> 190`)
}

func TestEditPriceRulesAppliesValidEdits(t *testing.T) {
	store := braceletRules()
	logger := &captureLogger{}

	report, err := NewEditPriceRules(store, nil, logger).Run(context.Background(), []pricing.SurchargeEdit{
		{Category: "bracelet", Label: "16cm", Value: "22"},
		{Category: "bracelet", Label: "18cm", Value: "abc"},
		{Category: "collier", Label: "50cm", Value: "35.5"},
		{Category: "collier", Label: "45cm", Value: ""},
	})
	require.NoError(t, err)

	require.NotNil(t, store.saved)
	assert.Equal(t, "22", store.saved[model.CategoryBracelet]["16cm"].String())
	assert.Equal(t, "25", store.saved[model.CategoryBracelet]["18cm"].String())
	assert.Equal(t, "35.5", store.saved[model.CategoryCollier]["50cm"].String())
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, model.RunStatusPartial, report.Status)
	require.Len(t, logger.warnings, 2)
	assert.Contains(t, logger.warnings[0], "Rule edit rejected")
}

func TestEditPriceRulesSaveFailure(t *testing.T) {
	store := braceletRules()
	store.saveErr = errBoom
	report, err := NewEditPriceRules(store, nil, &captureLogger{}).Run(context.Background(), nil)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, model.RunStatusFailed, report.Status)
}
