/*
Copyright 2024 The Kubeflow authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package client implements a small client for the Databricks REST API 2.0.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	dbxctl "github.com/dbxops/dbxctl"
	"github.com/dbxops/dbxctl/internal/metrics"
	"github.com/dbxops/dbxctl/pkg/common"
	"github.com/dbxops/dbxctl/pkg/util"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-Id"
)

// Options defines the options of the client.
type Options struct {
	// HTTPClient is used for every request. Defaults to a client with
	// common.DefaultRequestTimeout.
	HTTPClient *http.Client

	// QPS and Burst configure client side rate limiting. A QPS of zero or
	// less disables it.
	QPS   float64
	Burst int

	UserAgent string
	Logger    logr.Logger
	Metrics   *metrics.APIMetrics
}

// Client talks to the REST API of a single Databricks workspace.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     logr.Logger
	metrics    *metrics.APIMetrics
}

// New creates a client for the workspace at workspaceURL authenticating with
// the given bearer token.
func New(workspaceURL, token string, options Options) (*Client, error) {
	workspaceURL = util.TrimWorkspaceURL(workspaceURL)
	if workspaceURL == "" {
		return nil, fmt.Errorf("workspace URL must not be empty")
	}
	parsed, err := url.Parse(workspaceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace URL %q: %v", workspaceURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid workspace URL %q: scheme and host are required", workspaceURL)
	}
	if token == "" {
		return nil, fmt.Errorf("access token must not be empty")
	}

	c := &Client{
		baseURL:    workspaceURL + common.APIPathPrefix,
		token:      token,
		httpClient: options.HTTPClient,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		userAgent:  options.UserAgent,
		logger:     options.Logger,
		metrics:    options.Metrics,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: common.DefaultRequestTimeout}
	}
	if options.QPS > 0 {
		burst := options.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(options.QPS), burst)
	}
	if c.userAgent == "" {
		c.userAgent = "dbxctl/" + dbxctl.Version()
	}
	if c.logger.GetSink() == nil {
		c.logger = logr.Discard()
	}

	return c, nil
}

// do sends a request to the API endpoint at path and decodes a successful
// response into out. The raw response body is always returned when a
// response was received, also for API errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request to %s: %v", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	requestID := uuid.NewString()
	req.Header.Set(headerAuthorization, "Bearer "+c.token)
	req.Header.Set(headerContentType, "application/json")
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set(headerRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, path, 0, time.Since(start))
		c.logger.V(1).Info("Databricks API request failed", "method", method, "path", path, "requestID", requestID, "error", err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	c.metrics.ObserveRequest(method, path, resp.StatusCode, duration)
	c.logger.V(1).Info("Databricks API request", "method", method, "path", path, "status", resp.StatusCode, "requestID", requestID, "duration", duration)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", method, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return raw, newAPIError(method, path, resp.StatusCode, raw)
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
		}
	}

	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}
