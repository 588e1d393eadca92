package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"shopify-pricer/internal/adapters/shopify/dto"
	"shopify-pricer/internal/domain/model"
	"shopify-pricer/internal/domain/pricing"
)

type BulkService interface {
	StageBulkUpload(ctx context.Context, filename string, payload []byte) (string, error)
	RunBulkMutation(ctx context.Context, mutation, stagedUploadPath string) (model.BulkOperation, error)
}

var _ BulkService = (*Client)(nil)

// VariantPriceMutation is executed once per JSONL line; the line object is
// its variables.
const VariantPriceMutation = `mutation call($id: ID!, $price: Money!) {
	productVariantUpdate(input: {id: $id, price: $price}) {
		productVariant { id price }
		userErrors { field message }
	}
}`

const (
	bulkUploadResource = "BULK_MUTATION_VARIABLES"
	bulkUploadMimeType = "text/jsonl"
	stagedPathParam    = "key"
)

// BuildBulkPayload renders records as JSON Lines with string prices.
func BuildBulkPayload(records []model.BulkUpdateRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		line := dto.BulkVariantPrice{
			ID:    record.VariantID,
			Price: pricing.FormatMoney(record.Price),
		}
		if err := enc.Encode(line); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// StageBulkUpload reserves a staged target and uploads payload to it. The
// returned path is what bulkOperationRunMutation expects.
func (c *Client) StageBulkUpload(ctx context.Context, filename string, payload []byte) (string, error) {
	target, err := c.createStagedUpload(ctx, filename)
	if err != nil {
		return "", err
	}

	stagedPath := ""
	for _, param := range target.Parameters {
		if param.Name == stagedPathParam {
			stagedPath = param.Value
			break
		}
	}
	if stagedPath == "" {
		return "", errors.New("shopify staged upload target missing key parameter")
	}

	if err := c.uploadStaged(ctx, target, filename, payload); err != nil {
		return "", err
	}
	c.logInfo(fmt.Sprintf("shopify staged upload done bytes=%d", len(payload)))
	return stagedPath, nil
}

func (c *Client) createStagedUpload(ctx context.Context, filename string) (dto.StagedUploadTarget, error) {
	query := `
	mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
		stagedUploadsCreate(input: $input) {
			stagedTargets {
				url
				resourceUrl
				parameters { name value }
			}
			userErrors { field message }
		}
	}`

	input := []map[string]any{{
		"resource":   bulkUploadResource,
		"filename":   filename,
		"mimeType":   bulkUploadMimeType,
		"httpMethod": http.MethodPost,
	}}

	var data dto.StagedUploadsCreateData
	if err := c.graphqlRequest(ctx, query, map[string]any{"input": input}, &data); err != nil {
		return dto.StagedUploadTarget{}, err
	}
	if err := userErrorsToDetailedError("stagedUploadsCreate", data.StagedUploadsCreate.UserErrors); err != nil {
		return dto.StagedUploadTarget{}, err
	}
	if len(data.StagedUploadsCreate.StagedTargets) == 0 || strings.TrimSpace(data.StagedUploadsCreate.StagedTargets[0].URL) == "" {
		return dto.StagedUploadTarget{}, errors.New("shopify staged upload returned no target")
	}
	return data.StagedUploadsCreate.StagedTargets[0], nil
}

// uploadStaged posts the signed form fields followed by the file. The target
// is third-party storage, so the shop token is not sent.
func (c *Client) uploadStaged(ctx context.Context, target dto.StagedUploadTarget, filename string, payload []byte) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for _, param := range target.Parameters {
		if err := form.WriteField(param.Name, param.Value); err != nil {
			return err
		}
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(payload); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	_, err = c.do(ctx, apiRequest{
		method:      http.MethodPost,
		url:         target.URL,
		body:        body.Bytes(),
		contentType: form.FormDataContentType(),
	})
	if err != nil {
		return fmt.Errorf("shopify staged upload failed: %w", err)
	}
	return nil
}

// RunBulkMutation submits the job and returns its handle. Completion is not
// polled.
func (c *Client) RunBulkMutation(ctx context.Context, mutation, stagedUploadPath string) (model.BulkOperation, error) {
	query := `
	mutation bulkOperationRunMutation($mutation: String!, $stagedUploadPath: String!) {
		bulkOperationRunMutation(mutation: $mutation, stagedUploadPath: $stagedUploadPath) {
			bulkOperation { id status }
			userErrors { field message }
		}
	}`

	var data dto.BulkOperationRunMutationData
	err := c.graphqlRequest(ctx, query, map[string]any{
		"mutation":         mutation,
		"stagedUploadPath": stagedUploadPath,
	}, &data)
	if err != nil {
		return model.BulkOperation{}, err
	}
	if err := userErrorsToDetailedError("bulkOperationRunMutation", data.BulkOperationRunMutation.UserErrors); err != nil {
		return model.BulkOperation{}, err
	}
	op := data.BulkOperationRunMutation.BulkOperation
	if op == nil || strings.TrimSpace(op.ID) == "" {
		return model.BulkOperation{}, errors.New("shopify bulk operation returned empty id")
	}
	return model.BulkOperation{ID: op.ID, Status: op.Status}, nil
}
