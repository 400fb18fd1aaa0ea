// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package backend is the PostgREST (Supabase) client and the read queries the
gateway issues against it.

Client Features:
  - HTTP client with configurable per-call timeout
  - apikey + bearer authentication with the anon key
  - Outbound pacing with a token bucket (golang.org/x/time/rate)
  - Retries with exponential backoff on transport errors, HTTP 429 and 5xx
  - Circuit breaker around the whole retried call (sony/gobreaker)
  - One OpenTelemetry span and one latency observation per call
  - JSON decoding with goccy/go-json

Filtering, scoring and aggregation stay in the database; this package only
moves parameters in and rows out.
*/
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tomtom215/poigate/internal/config"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/tracing"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB)
// Returns the body content or a placeholder message if reading fails
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

type response struct {
	body   []byte
	header http.Header
}

// Client talks to the PostgREST endpoint under <url>/rest/v1.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	restURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*response]
	maxRetries int
	retryBase  time.Duration
	retryMax   time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the first and the maximum backoff delay.
func WithRetryDelay(base, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBase = base
		c.retryMax = maxDelay
	}
}

// NewClient creates a PostgREST client from the backend configuration.
//
//	client := backend.NewClient(cfg.Backend)
//	repo := backend.NewRepository(client)
func NewClient(cfg config.BackendConfig, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		restURL:    strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    newBreaker(cfg.BreakerTimeout, cfg.BreakerMinRequests),
		maxRetries: cfg.MaxRetries,
		retryBase:  100 * time.Millisecond,
		retryMax:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RPC calls a stored procedure with params as the JSON body and decodes the
// result into out. out may be nil to discard the body.
func (c *Client) RPC(ctx context.Context, fn string, params, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", fn, err)
	}

	resp, err := c.do(ctx, http.MethodPost, "rpc/"+fn, "", body, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode rpc/%s: %w", fn, err)
	}
	return nil
}

// Select reads rows from a table or view. When q requested an exact count the
// total from Content-Range is returned, otherwise -1.
func (c *Client) Select(ctx context.Context, table string, q *Query, out any) (int, error) {
	var headers map[string]string
	if q.count {
		headers = map[string]string{"Prefer": "count=exact"}
	}

	resp, err := c.do(ctx, http.MethodGet, table, q.Encode(), nil, headers)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return 0, fmt.Errorf("decode %s: %w", table, err)
	}
	if !q.count {
		return -1, nil
	}
	return parseContentRange(resp.header.Get("Content-Range")), nil
}

// do performs one logical call: span, breaker, retries, pacing, metrics.
func (c *Client) do(ctx context.Context, method, resource, rawQuery string, body []byte, headers map[string]string) (*response, error) {
	ctx, span := tracing.Tracer().Start(ctx, "postgrest "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("postgrest.resource", resource),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.execute(func() (*response, error) {
		return c.doWithRetry(ctx, method, resource, rawQuery, body, headers)
	})
	metrics.RecordBackendCall(resource, time.Since(start), errorType(err))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "postgrest call failed")
		return nil, err
	}
	return resp, nil
}

// doWithRetry retries transport errors, HTTP 429 and 5xx with exponential
// backoff. Other statuses fail immediately.
func (c *Client) doWithRetry(ctx context.Context, method, resource, rawQuery string, body []byte, headers map[string]string) (*response, error) {
	reqURL := c.restURL + "/" + resource
	if rawQuery != "" {
		reqURL += "?" + rawQuery
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryBase
	bo.MaxInterval = c.retryMax
	bo.MaxElapsedTime = 0
	var policy backoff.BackOff = backoff.WithMaxRetries(bo, uint64(max(c.maxRetries, 0)))
	policy = backoff.WithContext(policy, ctx)

	var out *response
	attempt := 0
	op := func() error {
		if attempt > 0 {
			metrics.BackendRetries.WithLabelValues(resource).Inc()
		}
		attempt++

		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			se := &StatusError{
				Resource:   resource,
				StatusCode: resp.StatusCode,
				Body:       string(readBodyForError(resp.Body)),
			}
			if se.retryable() {
				return se
			}
			return backoff.Permanent(se)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		out = &response{body: data, header: resp.Header}
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return out, nil
}

// parseContentRange extracts the total from "0-24/3573" or "*/0".
// It returns -1 when the total is missing or unknown ("*").
func parseContentRange(v string) int {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return -1
	}
	return n
}
