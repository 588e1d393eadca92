package dto

type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message    string                 `json:"message"`
	Path       []any                  `json:"path,omitempty"`
	Extensions map[string]any         `json:"extensions,omitempty"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
}

type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type ShopifyUserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

type ShopifyProduct struct {
	ID    string   `json:"id,omitempty"`
	Title string   `json:"title,omitempty"`
	Tags  []string `json:"tags,omitempty"`

	Variants   ShopifyVariantConnection   `json:"variants,omitempty"`
	Metafields ShopifyMetafieldConnection `json:"metafields,omitempty"`
}

type ShopifyPageInfo struct {
	HasNextPage bool   `json:"hasNextPage,omitempty"`
	EndCursor   string `json:"endCursor,omitempty"`
}

type ShopifyProductConnection struct {
	Edges    []ShopifyProductEdge `json:"edges,omitempty"`
	PageInfo ShopifyPageInfo      `json:"pageInfo,omitempty"`
}

type ShopifyProductEdge struct {
	Cursor string         `json:"cursor,omitempty"`
	Node   ShopifyProduct `json:"node"`
}

type ShopifyVariantConnection struct {
	Edges    []ShopifyVariantEdge `json:"edges,omitempty"`
	PageInfo ShopifyPageInfo      `json:"pageInfo,omitempty"`
}

type ShopifyVariantEdge struct {
	Cursor string         `json:"cursor,omitempty"`
	Node   ShopifyVariant `json:"node"`
}

type ShopifyVariant struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Price string `json:"price,omitempty"`
}

type ShopifyMetafieldConnection struct {
	Edges []ShopifyMetafieldEdge `json:"edges,omitempty"`
}

type ShopifyMetafieldEdge struct {
	Node ShopifyMetafield `json:"node"`
}

type ShopifyMetafield struct {
	ID        string `json:"id,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Key       string `json:"key,omitempty"`
	Value     string `json:"value,omitempty"`
}

type ProductsQueryData struct {
	Products ShopifyProductConnection `json:"products"`
}

type ProductVariantsQueryData struct {
	Product *struct {
		Variants ShopifyVariantConnection `json:"variants"`
	} `json:"product"`
}
