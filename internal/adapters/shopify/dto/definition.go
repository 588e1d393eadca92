package dto

type MetafieldDefinitionNode struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Key       string `json:"key,omitempty"`
	Type      struct {
		Name string `json:"name,omitempty"`
	} `json:"type"`
}

type MetafieldDefinitionConnection struct {
	Nodes    []MetafieldDefinitionNode `json:"nodes,omitempty"`
	PageInfo ShopifyPageInfo           `json:"pageInfo,omitempty"`
}

type MetafieldDefinitionsQueryData struct {
	MetafieldDefinitions MetafieldDefinitionConnection `json:"metafieldDefinitions"`
}

type MetafieldDefinitionCreateData struct {
	MetafieldDefinitionCreate struct {
		CreatedDefinition *MetafieldDefinitionNode `json:"createdDefinition,omitempty"`
		UserErrors        []ShopifyUserError       `json:"userErrors"`
	} `json:"metafieldDefinitionCreate"`
}
