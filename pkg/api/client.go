/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/version"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 1 << 20

	devicesPath         = "/api/devices"
	latestTelemetryPath = "/api/telemetry/latest/"

	tracerName = "github.com/carverauto/telemetry-dashboard/pkg/api"

	// APIKeyHeader carries the per-device credential.
	APIKeyHeader = "x-api-key"
)

// Client talks to the device API rooted at a base URL.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	credential CredentialFunc
	userAgent  string
	tracer     trace.Tracer
	logger     logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithCredentialFunc replaces AliasCredential.
func WithCredentialFunc(fn CredentialFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.credential = fn
		}
	}
}

var (
	_ DeviceLister     = (*Client)(nil)
	_ TelemetryFetcher = (*Client)(nil)
)

// NewClient validates baseURL and returns a client for it.
func NewClient(baseURL string, log logger.Logger, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidBaseURL, err)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		credential: AliasCredential,
		userAgent:  version.UserAgent("client"),
		tracer:     otel.Tracer(tracerName),
		logger:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the normalized API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getResult is the outcome of a GET that produced a response.
type getResult struct {
	status int
	body   []byte
}

func (r getResult) ok() bool {
	return r.status >= http.StatusOK && r.status < http.StatusMultipleChoices
}

// get issues a GET inside a client span and reads the body. The error is
// non-nil only when no complete response was received.
func (c *Client) get(
	ctx context.Context, spanName, reqURL string, headers map[string]string,
) (res getResult, err error) {
	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", reqURL),
		),
	)
	defer func() { endSpan(span, res, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return getResult{}, err
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return getResult{}, err
	}
	defer c.closeResponse(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return getResult{status: resp.StatusCode}, fmt.Errorf("failed to read response body: %w", err)
	}

	return getResult{status: resp.StatusCode, body: body}, nil
}

func endSpan(span trace.Span, res getResult, err error) {
	if res.status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", res.status))
	}

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case !res.ok():
		span.SetStatus(codes.Error, http.StatusText(res.status))
	}

	span.End()
}

func (c *Client) closeResponse(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to close response body")
	}
}
