package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopify-pricer/internal/adapters/shopify/dto"
	"shopify-pricer/internal/config"
	"shopify-pricer/internal/logging"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Client talks to one shop. Calls are serialized by the caller; the client
// itself holds no per-request state.
type Client struct {
	config     config.ShopifyConfig
	httpClient *http.Client
	logger     logging.LoggerService

	baseURL     string
	maxAttempts int
	baseDelay   time.Duration
	paceDelay   time.Duration
	sleep       func(ctx context.Context, delay time.Duration) error
}

func NewClient(cfg config.ShopifyConfig, httpClient *http.Client, logger logging.LoggerService) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}
	return &Client{
		config:      cfg,
		httpClient:  httpClient,
		logger:      logger,
		baseURL:     shopBaseURL(cfg.ShopDomain),
		maxAttempts: retryMaxAttempts,
		baseDelay:   baseDelay,
		paceDelay:   cfg.PaceDelay,
		sleep:       sleepWithContext,
	}, nil
}

func shopBaseURL(domain string) string {
	domain = strings.TrimSpace(domain)
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return strings.TrimRight(domain, "/")
}

func (c *Client) restURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/admin/api/" + c.config.APIVer + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) graphqlURL() string {
	return c.baseURL + "/admin/api/" + c.config.APIVer + "/graphql.json"
}

type apiRequest struct {
	method      string
	url         string
	body        []byte
	contentType string
	authorize   bool
	// inspect runs on every 2xx body; errThrottled from it counts as a
	// throttled attempt.
	inspect func(body []byte) error
}

type apiResponse struct {
	statusCode int
	header     http.Header
	body       []byte
}

// do sends req with the retry policy: 429, 5xx, GraphQL throttling and
// transport failures are retried up to maxAttempts, waiting attempt*baseDelay
// between attempts. Any other non-2xx status fails at once.
func (c *Client) do(ctx context.Context, req apiRequest) (*apiResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, retryDelay(c.baseDelay, attempt-1)); err != nil {
				return nil, err
			}
		}

		resp, err := c.send(ctx, req)
		c.pace(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = &TransportError{Attempts: attempt, Err: err}
			c.logWarning(fmt.Sprintf("shopify %s %s transport error attempt=%d: %v", req.method, redactURL(req.url), attempt, err))
			continue
		}

		if isRetryableStatus(resp.statusCode) {
			lastErr = &RateLimitExceededError{Attempts: attempt, StatusCode: resp.statusCode}
			c.logWarning(fmt.Sprintf("shopify %s %s status=%d attempt=%d, retrying", req.method, redactURL(req.url), resp.statusCode, attempt))
			continue
		}
		if resp.statusCode < 200 || resp.statusCode >= 300 {
			return nil, newAPIError(resp.statusCode, http.StatusText(resp.statusCode), resp.body)
		}

		if req.inspect != nil {
			if err := req.inspect(resp.body); err != nil {
				if errors.Is(err, errThrottled) {
					lastErr = &RateLimitExceededError{Attempts: attempt, StatusCode: resp.statusCode, Throttled: true}
					c.logWarning(fmt.Sprintf("shopify graphql throttled attempt=%d, retrying", attempt))
					continue
				}
				return nil, err
			}
		}
		return resp, nil
	}
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, call apiRequest) (*apiResponse, error) {
	var body io.Reader
	if call.body != nil {
		body = bytes.NewReader(call.body)
	}
	req, err := http.NewRequestWithContext(ctx, call.method, call.url, body)
	if err != nil {
		return nil, err
	}
	if call.contentType != "" {
		req.Header.Set("Content-Type", call.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if call.authorize {
		req.Header.Set("X-Shopify-Access-Token", c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &apiResponse{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		body:       respBody,
	}, nil
}

func (c *Client) pace(ctx context.Context) {
	if c.paceDelay <= 0 {
		return
	}
	_ = c.sleep(ctx, c.paceDelay)
}

// restRequest performs an authorized Admin REST call. payload and out may be
// nil. The response headers are returned for pagination.
func (c *Client) restRequest(ctx context.Context, method, path string, payload any, out any) (http.Header, error) {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = encoded
	}

	resp, err := c.do(ctx, apiRequest{
		method:      method,
		url:         c.restURL(path),
		body:        body,
		contentType: "application/json",
		authorize:   true,
	})
	if err != nil {
		return nil, err
	}
	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, fmt.Errorf("shopify decode %s %s: %w", method, path, err)
		}
	}
	return resp.header, nil
}

func (c *Client) graphqlRequest(ctx context.Context, query string, variables map[string]any, out any) error {
	payload := graphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var resp dto.GraphQLResponse[json.RawMessage]
	_, err = c.do(ctx, apiRequest{
		method:      http.MethodPost,
		url:         c.graphqlURL(),
		body:        bodyBytes,
		contentType: "application/json",
		authorize:   true,
		inspect: func(body []byte) error {
			resp = dto.GraphQLResponse[json.RawMessage]{}
			if err := json.Unmarshal(body, &resp); err != nil {
				return err
			}
			if isThrottleGraphQLError(resp.Errors) {
				return errThrottled
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("shopify graphql errors: %s", formatGraphQLErrors(resp.Errors))
	}
	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return errors.New("shopify graphql response missing data")
	}
	return json.Unmarshal(resp.Data, out)
}

// redactURL drops the query string, which may carry signed upload params.
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func (c *Client) logInfo(message string) {
	if c.logger == nil || strings.TrimSpace(message) == "" {
		return
	}
	c.logger.Log(message)
}

func (c *Client) logWarning(message string) {
	if c.logger == nil || strings.TrimSpace(message) == "" {
		return
	}
	c.logger.LogWarning(message)
}
