package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/testpulse/testpulse-mcp/internal/common"
)

// remoteError is a non-2xx response from the analytics API. The status code
// and raw body are surfaced verbatim; there is no retry.
type remoteError struct {
	status int
	body   string
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.status, e.body)
}

// timeoutError is a forwarded request that exceeded the configured deadline.
// The message names the deadline and points at the parameters most likely to
// have caused a slow query.
type timeoutError struct {
	timeout time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s; try reducing the days or limit parameters", e.timeout)
}

// APIProxy connects MCP tool calls to the TestPulse analytics REST API.
type APIProxy struct {
	baseURL          string
	basePath         string
	apiKey           string
	defaultProjectID string
	timeout          time.Duration
	httpClient       *http.Client
	logger           *common.Logger
}

// NewAPIProxy creates a proxy targeting the configured analytics API.
// The timeout defaults to 25s, chosen to stay under the 30s hard limit of
// the gateways the API is usually deployed behind.
func NewAPIProxy(cfg APIConfig, logger *common.Logger) *APIProxy {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 25 * time.Second
	}

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/tests"
	}

	return &APIProxy{
		baseURL:          cfg.URL,
		basePath:         basePath,
		apiKey:           cfg.Key,
		defaultProjectID: cfg.ProjectID,
		timeout:          timeout,
		httpClient:       &http.Client{},
		logger:           logger,
	}
}

// queryValue converts a tool argument to its query-string representation.
// Nil values are skipped entirely. Arguments are always scalars per the tool
// schemas; anything else falls through to fmt's default formatting.
func queryValue(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case json.Number:
		return val.String(), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// forward translates one tool invocation into one GET against the analytics
// API and returns the raw response body. Argument values are not validated
// here; structural mismatches surface as API error responses.
func (p *APIProxy) forward(ctx context.Context, route string, args map[string]interface{}) ([]byte, error) {
	logger := p.logger.WithCorrelationId(uuid.New().String())

	// Inject the configured default project only when the caller didn't
	// supply one. No other parameter gets an implicit default at this layer.
	if p.defaultProjectID != "" {
		if v, ok := args["project_id"]; !ok || v == nil {
			if args == nil {
				args = map[string]interface{}{}
			}
			args["project_id"] = p.defaultProjectID
		}
	}

	query := url.Values{}
	for key, val := range args {
		s, ok := queryValue(val)
		if !ok {
			continue
		}
		query.Set(key, s)
	}

	target := p.baseURL + p.basePath + route
	if enc := query.Encode(); enc != "" {
		target += "?" + enc
	}

	logger.Debug().
		Str("method", "GET").
		Str("url", target).
		Msg("MCP Proxy Request")

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	// The Authorization header is sent even with an empty key; the API
	// rejects it as unauthenticated, which surfaces in-band like any other
	// remote error. Content-Type matches what the API's request parser expects.
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error().Str("url", target).Dur("duration", duration).Msg("MCP Proxy Request Timed Out")
			return nil, &timeoutError{timeout: p.timeout}
		}
		logger.Error().Err(err).Str("url", target).Dur("duration", duration).Msg("MCP Proxy Request Failed")
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("MCP Proxy Response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &remoteError{status: resp.StatusCode, body: string(body)}
	}

	return body, nil
}
