package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shopify-pricer/internal/adapters/shopify/dto"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
)

const (
	RESTPageSize           = 250
	GraphQLPageSize        = 50
	GraphQLVariantPageSize = 100
)

// Paginator walks a product listing one page at a time. Next must not be
// called once Done reports true. Pages may be empty.
type Paginator interface {
	Next(ctx context.Context) ([]model.Product, error)
	Done() bool
}

var ErrPaginatorDone = errors.New("shopify paginator exhausted")

// parseNextLink extracts the rel="next" target from a Link header such as
// `<https://x/products.json?page_info=abc>; rel="next", <...>; rel="previous"`.
func parseNextLink(header string) string {
	for _, entry := range strings.Split(header, ",") {
		segments := strings.Split(entry, ";")
		if len(segments) < 2 {
			continue
		}
		next := false
		for _, param := range segments[1:] {
			param = strings.ReplaceAll(strings.TrimSpace(param), " ", "")
			if param == `rel="next"` || param == "rel=next" {
				next = true
				break
			}
		}
		if !next {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if strings.HasPrefix(target, "<") && strings.HasSuffix(target, ">") && len(target) > 2 {
			return target[1 : len(target)-1]
		}
	}
	return ""
}

type restProductPager struct {
	client *Client
	next   string
	done   bool
}

// RESTProducts pages through /products.json following Link headers.
func (c *Client) RESTProducts() Paginator {
	return &restProductPager{
		client: c,
		next:   fmt.Sprintf("products.json?limit=%d", RESTPageSize),
	}
}

func (p *restProductPager) Done() bool {
	return p.done
}

func (p *restProductPager) Next(ctx context.Context) ([]model.Product, error) {
	if p.done {
		return nil, ErrPaginatorDone
	}
	current := p.next

	var resp dto.RESTProductsResponse
	header, err := p.client.restRequest(ctx, http.MethodGet, current, nil, &resp)
	if err != nil {
		p.done = true
		return nil, err
	}

	next := parseNextLink(header.Get("Link"))
	if next == "" || next == current || next == p.client.restURL(current) {
		p.done = true
	}
	p.next = next

	return p.client.mapRESTProducts(resp.Products), nil
}

func (c *Client) mapRESTProducts(products []dto.RESTProduct) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, product := range products {
		out = append(out, c.mapRESTProduct(product))
	}
	return out
}

func (c *Client) mapRESTProduct(product dto.RESTProduct) model.Product {
	variants := make([]model.Variant, 0, len(product.Variants))
	for _, variant := range product.Variants {
		variants = append(variants, c.mapVariant(strconv.FormatInt(variant.ID, 10), variant.Title, variant.Price))
	}
	return model.Product{
		ID:       strconv.FormatInt(product.ID, 10),
		Title:    product.Title,
		Tags:     model.SplitTags(product.Tags),
		Variants: variants,
	}
}

type graphqlProductPager struct {
	client *Client
	cursor string
	done   bool
}

// GraphQLProducts pages through the products connection, resolving nested
// variant pages and the custom.base_price metafield for each product.
func (c *Client) GraphQLProducts() Paginator {
	return &graphqlProductPager{client: c}
}

func (p *graphqlProductPager) Done() bool {
	return p.done
}

func (p *graphqlProductPager) Next(ctx context.Context) ([]model.Product, error) {
	if p.done {
		return nil, ErrPaginatorDone
	}

	query := `
	query products($first: Int!, $after: String, $variantsFirst: Int!, $namespace: String!) {
		products(first: $first, after: $after) {
			edges {
				cursor
				node {
					id
					title
					tags
					metafields(first: 10, namespace: $namespace) {
						edges { node { id namespace key value } }
					}
					variants(first: $variantsFirst) {
						edges { cursor node { id title price } }
						pageInfo { hasNextPage endCursor }
					}
				}
			}
			pageInfo { hasNextPage endCursor }
		}
	}`

	variables := map[string]any{
		"first":         GraphQLPageSize,
		"variantsFirst": GraphQLVariantPageSize,
		"namespace":     model.BasePriceNamespace,
	}
	if p.cursor != "" {
		variables["after"] = p.cursor
	}

	var data dto.ProductsQueryData
	if err := p.client.graphqlRequest(ctx, query, variables, &data); err != nil {
		p.done = true
		return nil, err
	}

	products := make([]model.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		node := edge.Node
		variants := node.Variants
		if variants.PageInfo.HasNextPage {
			rest, err := p.client.remainingVariants(ctx, node.ID, lastVariantCursor(variants))
			if err != nil {
				p.done = true
				return nil, err
			}
			variants.Edges = append(variants.Edges, rest...)
		}
		node.Variants = variants
		product, err := p.client.mapGraphQLProduct(node)
		if err != nil {
			p.client.logWarning(fmt.Sprintf("shopify product %s %q: %v", node.ID, node.Title, err))
		}
		products = append(products, product)
	}

	next := data.Products.PageInfo.EndCursor
	if next == "" && len(data.Products.Edges) > 0 {
		next = data.Products.Edges[len(data.Products.Edges)-1].Cursor
	}
	if !data.Products.PageInfo.HasNextPage || next == "" || next == p.cursor {
		p.done = true
	}
	p.cursor = next

	return products, nil
}

func lastVariantCursor(conn dto.ShopifyVariantConnection) string {
	if conn.PageInfo.EndCursor != "" {
		return conn.PageInfo.EndCursor
	}
	if len(conn.Edges) == 0 {
		return ""
	}
	return conn.Edges[len(conn.Edges)-1].Cursor
}

func (c *Client) remainingVariants(ctx context.Context, productID, after string) ([]dto.ShopifyVariantEdge, error) {
	query := `
	query productVariants($id: ID!, $first: Int!, $after: String) {
		product(id: $id) {
			variants(first: $first, after: $after) {
				edges { cursor node { id title price } }
				pageInfo { hasNextPage endCursor }
			}
		}
	}`

	var edges []dto.ShopifyVariantEdge
	for after != "" {
		var data dto.ProductVariantsQueryData
		err := c.graphqlRequest(ctx, query, map[string]any{
			"id":    productID,
			"first": GraphQLVariantPageSize,
			"after": after,
		}, &data)
		if err != nil {
			return nil, err
		}
		if data.Product == nil {
			break
		}
		conn := data.Product.Variants
		edges = append(edges, conn.Edges...)
		if !conn.PageInfo.HasNextPage {
			break
		}
		next := lastVariantCursor(conn)
		if next == after {
			break
		}
		after = next
	}
	return edges, nil
}

// mapGraphQLProduct always returns the product; a malformed base price is
// reported as an error and left unset.
func (c *Client) mapGraphQLProduct(node dto.ShopifyProduct) (model.Product, error) {
	variants := make([]model.Variant, 0, len(node.Variants.Edges))
	for _, edge := range node.Variants.Edges {
		variants = append(variants, c.mapVariant(edge.Node.ID, edge.Node.Title, edge.Node.Price))
	}
	product := model.Product{
		ID:       node.ID,
		Title:    node.Title,
		Tags:     node.Tags,
		Variants: variants,
	}
	for _, edge := range node.Metafields.Edges {
		if edge.Node.Key != model.BasePriceKey {
			continue
		}
		value, err := pricing.ParseBasePrice(strings.TrimSpace(edge.Node.Value))
		if err != nil {
			return product, err
		}
		product.BasePrice = &model.BasePrice{MetafieldID: edge.Node.ID, Value: value}
		break
	}
	return product, nil
}
