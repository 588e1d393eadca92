package shopify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shopify-pricer/internal/adapters/shopify/dto"
)

const (
	retryMaxAttempts      = 5
	defaultRetryBaseDelay = 2 * time.Second
)

var errThrottled = errors.New("shopify graphql throttled")

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

func isThrottleGraphQLError(errs []dto.GraphQLError) bool {
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e.Message), "throttled") {
			return true
		}
		if code, ok := e.Extensions["code"].(string); ok && strings.EqualFold(code, "THROTTLED") {
			return true
		}
	}
	return false
}

// retryDelay grows linearly: the wait after the n-th failed attempt is n*base.
func retryDelay(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(attempt) * base
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
