package shopify

import (
	"errors"
	"fmt"
	"strings"

	"shopify-pricer/internal/adapters/shopify/dto"
)

// APIError is a non-retryable rejection from Shopify.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("shopify request failed: %s", e.Status)
	}
	return fmt.Sprintf("shopify request failed: %s: %s", e.Status, e.Body)
}

func newAPIError(statusCode int, status string, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Body:       strings.TrimSpace(string(body)),
	}
}

// RateLimitExceededError means every attempt was throttled or hit a 5xx.
type RateLimitExceededError struct {
	Attempts   int
	StatusCode int
	Throttled  bool
}

func (e *RateLimitExceededError) Error() string {
	if e.Throttled {
		return fmt.Sprintf("shopify rate-limit exceeded after %d attempts (graphql throttled)", e.Attempts)
	}
	return fmt.Sprintf("shopify rate-limit exceeded after %d attempts (last status %d)", e.Attempts, e.StatusCode)
}

// TransportError wraps the last network failure once retries are spent.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("shopify transport failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type userErrorDetail struct {
	Field   string
	Message string
}

// UserErrorsError carries the userErrors list of a GraphQL mutation.
type UserErrorsError struct {
	Action string
	Errors []userErrorDetail
}

func (e *UserErrorsError) Error() string {
	if e == nil {
		return "shopify user errors"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		field := strings.TrimSpace(err.Field)
		message := strings.TrimSpace(err.Message)
		if field == "" {
			parts = append(parts, message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, message))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("shopify %s failed with user errors", e.Action)
	}
	return fmt.Sprintf("shopify %s failed: %s", e.Action, strings.Join(parts, "; "))
}

func userErrorsToDetailedError(action string, errs []dto.ShopifyUserError) error {
	if len(errs) == 0 {
		return nil
	}
	details := make([]userErrorDetail, 0, len(errs))
	for _, e := range errs {
		message := strings.TrimSpace(e.Message)
		if message == "" {
			continue
		}
		field := ""
		if len(e.Field) > 0 {
			field = strings.Join(e.Field, ".")
		}
		details = append(details, userErrorDetail{Field: field, Message: message})
	}
	if len(details) == 0 {
		return &UserErrorsError{Action: action, Errors: []userErrorDetail{{Message: "user errors returned"}}}
	}
	return &UserErrorsError{Action: action, Errors: details}
}

func formatGraphQLErrors(errs []dto.GraphQLError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Path) > 0 {
			msg = fmt.Sprintf("%s (path: %v)", msg, e.Path)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return "unknown graphql error"
	}
	return strings.Join(parts, "; ")
}

// IsRateLimited reports whether err came from an exhausted retry budget.
func IsRateLimited(err error) bool {
	var rl *RateLimitExceededError
	return errors.As(err, &rl)
}
