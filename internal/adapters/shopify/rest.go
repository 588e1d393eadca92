package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/adapters/shopify/dto"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
)

type VariantPriceService interface {
	UpdateVariantPrice(ctx context.Context, variantID string, price decimal.Decimal) error
}

type BasePriceService interface {
	ProductBasePrice(ctx context.Context, productID string) (*model.BasePrice, error)
	FindProductsByTitle(ctx context.Context, title string) ([]model.Product, error)
	UpdateBasePrice(ctx context.Context, metafieldID string, value decimal.Decimal) error
	CreateBasePrice(ctx context.Context, productID string, value decimal.Decimal) error
}

var (
	_ VariantPriceService = (*Client)(nil)
	_ BasePriceService    = (*Client)(nil)
)

// ProductBasePrice reads /products/{id}/metafields.json and returns the
// base_price metafield, or nil when the product has none. A value that does
// not parse is returned as a *pricing.DataError together with a BasePrice
// that carries only the metafield id, so callers can still overwrite it.
func (c *Client) ProductBasePrice(ctx context.Context, productID string) (*model.BasePrice, error) {
	id, err := legacyID(productID)
	if err != nil {
		return nil, err
	}

	var resp dto.RESTMetafieldsResponse
	if _, err := c.restRequest(ctx, http.MethodGet, fmt.Sprintf("products/%d/metafields.json", id), nil, &resp); err != nil {
		return nil, err
	}

	for _, field := range resp.Metafields {
		if field.Key != model.BasePriceKey {
			continue
		}
		base := &model.BasePrice{MetafieldID: strconv.FormatInt(field.ID, 10)}
		value, err := pricing.ParseBasePrice(metafieldValue(field.Value))
		if err != nil {
			return base, err
		}
		base.Value = value
		return base, nil
	}
	return nil, nil
}

func (c *Client) UpdateVariantPrice(ctx context.Context, variantID string, price decimal.Decimal) error {
	id, err := legacyID(variantID)
	if err != nil {
		return err
	}
	var payload dto.RESTVariantUpdate
	payload.Variant.ID = id
	payload.Variant.Price = pricing.FormatMoney(price)

	_, err = c.restRequest(ctx, http.MethodPut, fmt.Sprintf("variants/%d.json", id), payload, nil)
	return err
}

// FindProductsByTitle uses the platform's own title filter, which may match
// zero or several products.
func (c *Client) FindProductsByTitle(ctx context.Context, title string) ([]model.Product, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("shopify product title is required")
	}
	var resp dto.RESTProductsResponse
	path := "products.json?title=" + url.QueryEscape(title)
	if _, err := c.restRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return c.mapRESTProducts(resp.Products), nil
}

func (c *Client) UpdateBasePrice(ctx context.Context, metafieldID string, value decimal.Decimal) error {
	id, err := legacyID(metafieldID)
	if err != nil {
		return err
	}
	var payload dto.RESTMetafieldUpdate
	payload.Metafield.ID = id
	payload.Metafield.Value = value.String()
	payload.Metafield.Type = model.BasePriceType

	_, err = c.restRequest(ctx, http.MethodPut, fmt.Sprintf("metafields/%d.json", id), payload, nil)
	return err
}

func (c *Client) CreateBasePrice(ctx context.Context, productID string, value decimal.Decimal) error {
	id, err := legacyID(productID)
	if err != nil {
		return err
	}
	var payload dto.RESTMetafieldCreate
	payload.Metafield.Namespace = model.BasePriceNamespace
	payload.Metafield.Key = model.BasePriceKey
	payload.Metafield.Value = value.String()
	payload.Metafield.Type = model.BasePriceType
	payload.Metafield.OwnerID = id
	payload.Metafield.OwnerResource = "product"

	_, err = c.restRequest(ctx, http.MethodPost, "metafields.json", payload, nil)
	return err
}

// legacyID accepts either a numeric REST id or a gid://shopify/Type/123.
func legacyID(id string) (int64, error) {
	id = strings.TrimSpace(id)
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("shopify id %q is not numeric", id)
	}
	return value, nil
}

func metafieldValue(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(string(raw))
}

// mapVariant keeps a variant whose price does not parse, flagged so price
// based jobs skip its product.
func (c *Client) mapVariant(id, title, rawPrice string) model.Variant {
	variant := model.Variant{ID: id, Title: title}
	price, err := pricing.ParseVariantPrice(rawPrice)
	if err != nil {
		c.logWarning(fmt.Sprintf("shopify variant %s: %v", id, err))
		variant.PriceMalformed = true
		return variant
	}
	variant.Price = price
	return variant
}
