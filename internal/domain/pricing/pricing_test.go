package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-pricer/internal/domain/model"
)

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func rules(t *testing.T) model.PriceRuleTable {
	return model.PriceRuleTable{
		model.CategoryBracelet: {"16cm": dec(t, "20"), "18cm": dec(t, "25.555")},
		model.CategoryCollier:  {"45cm": dec(t, "30")},
	}
}

func product(tags []string, base *model.BasePrice, titles ...string) model.Product {
	p := model.Product{ID: "1", Title: "Gold Chain", Tags: tags, BasePrice: base}
	for i, title := range titles {
		p.Variants = append(p.Variants, model.Variant{ID: string(rune('a' + i)), Title: title})
	}
	return p
}

func TestCategoryPrefersBracelet(t *testing.T) {
	category, ok := Category(model.Product{Tags: []string{"Collier", "BRACELET"}})
	require.True(t, ok)
	assert.Equal(t, model.CategoryBracelet, category)

	category, ok = Category(model.Product{Tags: []string{"collier"}})
	require.True(t, ok)
	assert.Equal(t, model.CategoryCollier, category)

	_, ok = Category(model.Product{Tags: []string{"bague"}})
	assert.False(t, ok)
}

func TestEligibility(t *testing.T) {
	tagged := model.Product{Tags: []string{"bracelet", "Chaine_Update"}}
	untagged := model.Product{Tags: []string{"bracelet"}}

	assert.True(t, EligibleTagged.Allows(tagged))
	assert.False(t, EligibleTagged.Allows(untagged))
	assert.True(t, EligibleAll.Allows(untagged))
}

func TestPricesAddsSurcharge(t *testing.T) {
	calc := NewCalculator(rules(t))
	p := product([]string{"bracelet", "chaine_update"}, &model.BasePrice{Value: dec(t, "100")}, "16cm", "18cm", "20cm")

	prices := calc.Prices(p)
	require.Len(t, prices, 3)
	assert.Equal(t, "120.00", FormatMoney(prices[0].Price))
	assert.Equal(t, "125.56", FormatMoney(prices[1].Price))
	assert.Equal(t, "100.00", FormatMoney(prices[2].Price))
	assert.Equal(t, "a", prices[0].VariantID)
}

func TestSurchargeTitleMatchIsExact(t *testing.T) {
	table := rules(t)
	table[model.CategoryBracelet]["16CM"] = dec(t, "5")
	calc := NewCalculator(table)

	assert.Equal(t, "5", calc.Surcharge(model.CategoryBracelet, "16CM").String())
	assert.Equal(t, "20", calc.Surcharge(model.CategoryBracelet, "16cm").String())
	assert.True(t, calc.Surcharge(model.CategoryBracelet, "18CM").IsZero())
	assert.True(t, calc.Surcharge(model.CategoryBracelet, "16cm ").IsZero())
	assert.True(t, calc.Surcharge(model.CategoryBracelet, "20cm").IsZero())
	assert.True(t, calc.Surcharge("bague", "16cm").IsZero())
}

func TestPricesIgnoreCaseMismatchedTitle(t *testing.T) {
	calc := NewCalculator(model.PriceRuleTable{model.CategoryBracelet: {"16cm": dec(t, "20")}})
	prices := calc.Prices(product([]string{"bracelet"}, &model.BasePrice{Value: dec(t, "100")}, "16CM"))
	require.Len(t, prices, 1)
	assert.Equal(t, "100.00", FormatMoney(prices[0].Price))
}

func TestPricesSkipsEmptyCategoryTable(t *testing.T) {
	calc := NewCalculator(model.NewPriceRuleTable())
	assert.False(t, calc.HasRules(model.CategoryCollier))
	assert.Empty(t, calc.Prices(product([]string{"collier"}, &model.BasePrice{Value: dec(t, "80")}, "45cm")))

	calc = NewCalculator(rules(t))
	assert.True(t, calc.HasRules(model.CategoryCollier))
}

func TestPricesSkipsUnclassifiedOrMissingBase(t *testing.T) {
	calc := NewCalculator(rules(t))

	assert.Empty(t, calc.Prices(product([]string{"bague"}, &model.BasePrice{Value: dec(t, "100")}, "16cm")))
	assert.Empty(t, calc.Prices(product([]string{"bracelet"}, nil, "16cm")))
}

func TestPricesCollier(t *testing.T) {
	calc := NewCalculator(rules(t))
	prices := calc.Prices(product([]string{"collier"}, &model.BasePrice{Value: dec(t, "80.5")}, "45cm"))
	require.Len(t, prices, 1)
	assert.Equal(t, "110.50", FormatMoney(prices[0].Price))
}

func TestParseBasePrice(t *testing.T) {
	value, err := ParseBasePrice("149.90")
	require.NoError(t, err)
	assert.Equal(t, "149.90", FormatMoney(value))

	_, err = ParseBasePrice("abc")
	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))

	_, err = ParseBasePrice("-1")
	require.Error(t, err)
}

func TestNiceRound(t *testing.T) {
	cases := map[int64]int64{
		0:    0,
		100:  100,
		140:  100,
		141:  190,
		189:  190,
		190:  190,
		191:  200,
		199:  200,
		1234: 1200,
		1255: 1290,
	}
	for in, want := range cases {
		assert.Equal(t, want, NiceRound(in), "NiceRound(%d)", in)
	}
}

func TestNiceRoundIdempotent(t *testing.T) {
	for x := int64(0); x < 5000; x++ {
		once := NiceRound(x)
		assert.Equal(t, once, NiceRound(once), "x=%d", x)
	}
}

func TestAdjustedBasePrice(t *testing.T) {
	assert.Equal(t, "1290", AdjustedBasePrice(dec(t, "1150"), dec(t, "10")).String())
	assert.Equal(t, "900", AdjustedBasePrice(dec(t, "1000"), dec(t, "-10")).String())
	assert.Equal(t, "200", AdjustedBasePrice(dec(t, "199.99"), dec(t, "0")).String())
}

func TestParsePercentage(t *testing.T) {
	value, err := ParsePercentage("12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.5", value.String())

	_, err = ParsePercentage("ten")
	require.Error(t, err)
	_, err = ParsePercentage("-150")
	require.Error(t, err)
}

func TestApplyEditsKeepsValidEdits(t *testing.T) {
	table := rules(t)
	out, problems := ApplyEdits(table, []SurchargeEdit{
		{Category: "bracelet", Label: "16cm", Value: "22.5"},
		{Category: "bracelet", Label: "18cm", Value: "abc"},
		{Category: "collier", Label: "50cm", Value: "40"},
		{Category: "bague", Label: "52", Value: "5"},
		{Category: "collier", Label: "45cm", Value: ""},
	})

	require.Len(t, problems, 2)
	assert.Contains(t, problems[0].Error(), `"abc"`)
	assert.True(t, out[model.CategoryBracelet]["16cm"].Equal(dec(t, "22.5")))
	assert.True(t, out[model.CategoryBracelet]["18cm"].Equal(dec(t, "25.555")))
	assert.True(t, out[model.CategoryCollier]["50cm"].Equal(dec(t, "40")))
	assert.True(t, out[model.CategoryCollier]["45cm"].Equal(dec(t, "30")))

	assert.True(t, table[model.CategoryBracelet]["16cm"].Equal(dec(t, "20")), "input table must not change")
}

func TestParseSurchargeEdit(t *testing.T) {
	edit, err := ParseSurchargeEdit("bracelet/16cm=20")
	require.NoError(t, err)
	assert.Equal(t, SurchargeEdit{Category: "bracelet", Label: "16cm", Value: "20"}, edit)

	edit, err = ParseSurchargeEdit("collier/45 cm / fin=12.5")
	require.NoError(t, err)
	assert.Equal(t, "45 cm / fin", edit.Label)

	for _, raw := range []string{"bracelet16cm=20", "bracelet/16cm", "/16cm=3", "bracelet/=3"} {
		_, err := ParseSurchargeEdit(raw)
		var dataErr *DataError
		assert.True(t, errors.As(err, &dataErr), raw)
	}
}

func TestOriginalPrice(t *testing.T) {
	price, err := OriginalPrice(model.Product{Variants: []model.Variant{{ID: "11", Price: dec(t, "130")}, {ID: "12", Price: dec(t, "999")}}})
	require.NoError(t, err)
	assert.Equal(t, "130", price.String())

	var dataErr *DataError
	_, err = OriginalPrice(model.Product{Variants: []model.Variant{{ID: "11", PriceMalformed: true}}})
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "invalid price of variant 11: not a decimal", err.Error())

	_, err = OriginalPrice(model.Product{})
	require.True(t, errors.As(err, &dataErr))

	_, err = ParseVariantPrice("12,50")
	require.True(t, errors.As(err, &dataErr))
	value, err := ParseVariantPrice(" 12.50 ")
	require.NoError(t, err)
	assert.Equal(t, "12.5", value.String())
}
