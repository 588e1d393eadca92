package dto

type StagedUploadParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type StagedUploadTarget struct {
	URL         string                  `json:"url"`
	ResourceURL string                  `json:"resourceUrl,omitempty"`
	Parameters  []StagedUploadParameter `json:"parameters"`
}

type StagedUploadsCreateData struct {
	StagedUploadsCreate struct {
		StagedTargets []StagedUploadTarget `json:"stagedTargets"`
		UserErrors    []ShopifyUserError   `json:"userErrors,omitempty"`
	} `json:"stagedUploadsCreate"`
}

type BulkOperationNode struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type BulkOperationRunMutationData struct {
	BulkOperationRunMutation struct {
		BulkOperation *BulkOperationNode `json:"bulkOperation"`
		UserErrors    []ShopifyUserError `json:"userErrors,omitempty"`
	} `json:"bulkOperationRunMutation"`
}

// BulkVariantPrice is one line of the JSONL variables file.
type BulkVariantPrice struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}
