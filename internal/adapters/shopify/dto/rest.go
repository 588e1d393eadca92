package dto

import "encoding/json"

type RESTProduct struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Tags     string        `json:"tags"`
	Variants []RESTVariant `json:"variants"`
}

type RESTVariant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id,omitempty"`
	Title     string `json:"title"`
	Price     string `json:"price"`
}

type RESTProductsResponse struct {
	Products []RESTProduct `json:"products"`
}

// RESTMetafield keeps Value raw: number_decimal values arrive as strings but
// older fields may be plain JSON numbers.
type RESTMetafield struct {
	ID        int64           `json:"id,omitempty"`
	Namespace string          `json:"namespace,omitempty"`
	Key       string          `json:"key,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	Type      string          `json:"type,omitempty"`
}

type RESTMetafieldsResponse struct {
	Metafields []RESTMetafield `json:"metafields"`
}

type RESTVariantUpdate struct {
	Variant struct {
		ID    int64  `json:"id"`
		Price string `json:"price"`
	} `json:"variant"`
}

type RESTMetafieldUpdate struct {
	Metafield struct {
		ID    int64  `json:"id"`
		Value string `json:"value"`
		Type  string `json:"type"`
	} `json:"metafield"`
}

type RESTMetafieldCreate struct {
	Metafield struct {
		Namespace     string `json:"namespace"`
		Key           string `json:"key"`
		Value         string `json:"value"`
		Type          string `json:"type"`
		OwnerID       int64  `json:"owner_id"`
		OwnerResource string `json:"owner_resource"`
	} `json:"metafield"`
}
