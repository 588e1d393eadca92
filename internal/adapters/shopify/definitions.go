package shopify

import (
	"context"
	"fmt"
	"strings"

	"shopify-pricer/internal/adapters/shopify/dto"
	"shopify-pricer/internal/domain/model"
)

const (
	metafieldOwnerProduct   = "PRODUCT"
	metafieldQueryPageSize  = 50
	basePriceDefinitionName = "Base price"
)

type MetafieldDefinitionService interface {
	EnsureBasePriceDefinition(ctx context.Context) (bool, error)
}

var _ MetafieldDefinitionService = (*Client)(nil)

// EnsureBasePriceDefinition creates the custom.base_price product definition
// when the shop has none. It reports whether a definition was created. An
// existing definition of another type is left alone and logged.
func (c *Client) EnsureBasePriceDefinition(ctx context.Context) (bool, error) {
	existing, err := c.listProductMetafieldDefinitions(ctx, model.BasePriceNamespace)
	if err != nil {
		return false, err
	}
	for _, node := range existing {
		if !strings.EqualFold(node.Key, model.BasePriceKey) {
			continue
		}
		if node.Type.Name != "" && node.Type.Name != model.BasePriceType {
			c.logWarning(fmt.Sprintf("shopify metafield definition %s.%s has type %s, expected %s", node.Namespace, node.Key, node.Type.Name, model.BasePriceType))
		}
		return false, nil
	}

	created, err := c.createProductMetafieldDefinition(ctx)
	if err != nil {
		return false, err
	}
	c.logInfo(fmt.Sprintf("shopify metafield definition created id=%s", created.ID))
	return true, nil
}

func (c *Client) listProductMetafieldDefinitions(ctx context.Context, namespace string) ([]dto.MetafieldDefinitionNode, error) {
	query := `
	query metafieldDefinitions($first: Int!, $after: String, $ownerType: MetafieldOwnerType!, $namespace: String!) {
		metafieldDefinitions(first: $first, after: $after, ownerType: $ownerType, namespace: $namespace) {
			nodes { id name namespace key type { name } }
			pageInfo { hasNextPage endCursor }
		}
	}`

	var (
		cursor  string
		results []dto.MetafieldDefinitionNode
	)
	for {
		var data dto.MetafieldDefinitionsQueryData
		variables := map[string]any{
			"first":     metafieldQueryPageSize,
			"ownerType": metafieldOwnerProduct,
			"namespace": namespace,
		}
		if cursor != "" {
			variables["after"] = cursor
		}
		if err := c.graphqlRequest(ctx, query, variables, &data); err != nil {
			return nil, err
		}
		results = append(results, data.MetafieldDefinitions.Nodes...)
		next := data.MetafieldDefinitions.PageInfo.EndCursor
		if !data.MetafieldDefinitions.PageInfo.HasNextPage || next == "" || next == cursor {
			break
		}
		cursor = next
	}
	return results, nil
}

func (c *Client) createProductMetafieldDefinition(ctx context.Context) (*dto.MetafieldDefinitionNode, error) {
	query := `
	mutation metafieldDefinitionCreate($definition: MetafieldDefinitionInput!) {
		metafieldDefinitionCreate(definition: $definition) {
			createdDefinition { id name namespace key }
			userErrors { field message }
		}
	}`

	payload := map[string]any{
		"definition": map[string]any{
			"name":      basePriceDefinitionName,
			"namespace": model.BasePriceNamespace,
			"key":       model.BasePriceKey,
			"type":      model.BasePriceType,
			"ownerType": metafieldOwnerProduct,
		},
	}

	var data dto.MetafieldDefinitionCreateData
	if err := c.graphqlRequest(ctx, query, payload, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToDetailedError("metafieldDefinitionCreate", data.MetafieldDefinitionCreate.UserErrors); err != nil {
		return nil, err
	}
	if data.MetafieldDefinitionCreate.CreatedDefinition == nil {
		return nil, fmt.Errorf("shopify metafieldDefinitionCreate returned no definition")
	}
	return data.MetafieldDefinitionCreate.CreatedDefinition, nil
}
