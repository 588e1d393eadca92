package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/adapters/shopify"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
)

type fakePager struct {
	pages [][]model.Product
	// failAt is the 1-based page whose fetch fails with err.
	failAt int
	err    error
	calls  int
	done   bool
}

func (p *fakePager) Next(context.Context) ([]model.Product, error) {
	if p.done {
		return nil, shopify.ErrPaginatorDone
	}
	p.calls++
	if p.failAt == p.calls {
		p.done = true
		return nil, p.err
	}
	page := p.pages[p.calls-1]
	if p.calls >= len(p.pages) {
		p.done = true
	}
	return page, nil
}

func (p *fakePager) Done() bool {
	return p.done || len(p.pages) == 0 && p.failAt == 0
}

type fakeCatalog struct {
	rest    *fakePager
	graphql *fakePager
}

func (c *fakeCatalog) RESTProducts() shopify.Paginator {
	if c.rest == nil {
		return &fakePager{}
	}
	return c.rest
}

func (c *fakeCatalog) GraphQLProducts() shopify.Paginator {
	if c.graphql == nil {
		return &fakePager{}
	}
	return c.graphql
}

// fakeShop keeps base prices and variant prices in memory and records every
// write.
type fakeShop struct {
	basePrices     map[string]*model.BasePrice
	malformed      map[string]string
	baseErrors     map[string]error
	byTitle        map[string][]model.Product
	variantErrors  map[string]error
	writeErrors    map[string]error
	variantWrites  map[string]decimal.Decimal
	created        map[string]decimal.Decimal
	updated        map[string]decimal.Decimal
	baseReads      int
	nextMetafield  int
	stagedPayload  []byte
	stagedFilename string
	stageErr       error
	submitted      string
	submitErr      error
	definitionErr  error
	definitionRuns int
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		basePrices:    map[string]*model.BasePrice{},
		malformed:     map[string]string{},
		baseErrors:    map[string]error{},
		byTitle:       map[string][]model.Product{},
		variantErrors: map[string]error{},
		writeErrors:   map[string]error{},
		variantWrites: map[string]decimal.Decimal{},
		created:       map[string]decimal.Decimal{},
		updated:       map[string]decimal.Decimal{},
		nextMetafield: 100,
	}
}

func (f *fakeShop) ProductBasePrice(_ context.Context, productID string) (*model.BasePrice, error) {
	f.baseReads++
	if err := f.baseErrors[productID]; err != nil {
		return nil, err
	}
	if id, ok := f.malformed[productID]; ok {
		return &model.BasePrice{MetafieldID: id}, &pricing.DataError{Subject: "base price", Value: "n/a", Reason: "not a decimal"}
	}
	return f.basePrices[productID], nil
}

func (f *fakeShop) FindProductsByTitle(_ context.Context, title string) ([]model.Product, error) {
	if err := f.baseErrors["title:"+title]; err != nil {
		return nil, err
	}
	return f.byTitle[title], nil
}

func (f *fakeShop) UpdateBasePrice(_ context.Context, metafieldID string, value decimal.Decimal) error {
	if err := f.writeErrors[metafieldID]; err != nil {
		return err
	}
	f.updated[metafieldID] = value
	return nil
}

func (f *fakeShop) CreateBasePrice(_ context.Context, productID string, value decimal.Decimal) error {
	if err := f.writeErrors[productID]; err != nil {
		return err
	}
	f.created[productID] = value
	f.nextMetafield++
	f.basePrices[productID] = &model.BasePrice{MetafieldID: fmt.Sprint(f.nextMetafield), Value: value}
	return nil
}

func (f *fakeShop) UpdateVariantPrice(_ context.Context, variantID string, price decimal.Decimal) error {
	if err := f.variantErrors[variantID]; err != nil {
		return err
	}
	f.variantWrites[variantID] = price
	return nil
}

func (f *fakeShop) StageBulkUpload(_ context.Context, filename string, payload []byte) (string, error) {
	f.stagedFilename = filename
	f.stagedPayload = payload
	if f.stageErr != nil {
		return "", f.stageErr
	}
	return "tmp/bulk/" + filename, nil
}

func (f *fakeShop) RunBulkMutation(_ context.Context, mutation, stagedUploadPath string) (model.BulkOperation, error) {
	if f.submitErr != nil {
		return model.BulkOperation{}, f.submitErr
	}
	f.submitted = stagedUploadPath
	return model.BulkOperation{ID: "gid://shopify/BulkOperation/1", Status: "CREATED"}, nil
}

func (f *fakeShop) EnsureBasePriceDefinition(context.Context) (bool, error) {
	f.definitionRuns++
	if f.definitionErr != nil {
		return false, f.definitionErr
	}
	return f.definitionRuns == 1, nil
}

type memRules struct {
	table   model.PriceRuleTable
	saved   model.PriceRuleTable
	loadErr error
	saveErr error
}

func (m *memRules) Load() (model.PriceRuleTable, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.table.Clone(), nil
}

func (m *memRules) Save(table model.PriceRuleTable) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = table
	return nil
}

type memSnapshots struct {
	snapshot model.PriceBackupSnapshot
	saves    int
	loadErr  error
	saveErr  error
}

func (m *memSnapshots) Load() (model.PriceBackupSnapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.snapshot, nil
}

func (m *memSnapshots) Save(snapshot model.PriceBackupSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snapshot = snapshot
	return nil
}

type recordingRecorder struct {
	reports []model.RunReport
	err     error
}

func (r *recordingRecorder) Record(_ context.Context, report model.RunReport) error {
	r.reports = append(r.reports, report)
	return r.err
}

// historyRecorder also answers Recent from the reports recorded so far,
// newest first.
type historyRecorder struct {
	recordingRecorder
	readErr error
	asked   []string
}

func (r *historyRecorder) Recent(_ context.Context, job string, limit int) ([]model.RunReport, error) {
	r.asked = append(r.asked, job)
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []model.RunReport
	for i := len(r.reports) - 1; i >= 0 && len(out) < limit; i-- {
		if r.reports[i].Job == job {
			out = append(out, r.reports[i])
		}
	}
	return out, nil
}

type captureLogger struct {
	mu       sync.Mutex
	info     []string
	warnings []string
	errors   []string
	success  []string
}

func (l *captureLogger) Log(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, value)
}

func (l *captureLogger) LogError(value string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf("%s: %v", value, err))
}

func (l *captureLogger) LogWarning(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, value)
}

func (l *captureLogger) LogSuccess(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.success = append(l.success, value)
}

func (l *captureLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := append(append(append(append([]string{}, l.info...), l.warnings...), l.errors...), l.success...)
	sort.Strings(all)
	return strings.Join(all, "\n")
}

var errBoom = errors.New("boom")

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func tagged(id, title string, tags string, variants ...model.Variant) model.Product {
	return model.Product{ID: id, Title: title, Tags: model.SplitTags(tags), Variants: variants}
}
