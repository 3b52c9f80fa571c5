// Package gateway is the single HTTP entry point to the backend hotel API.
// It attaches credentials, marks private calls, unwraps the transport
// envelope and normalizes failures into the apierr taxonomy. It never
// retries: retry is cache policy, not transport policy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/pkg/logger"
)

// PrivateRouteHeader signals an intermediary that the call requires an
// authenticated context. The raw token is attached separately by the
// credential interceptor, for every request that has one.
const PrivateRouteHeader = "X-Private-Route"

const defaultTimeout = 10 * time.Second

// TokenSource yields the access token for the credential interceptor. The
// token is resolved from ctx on every call, so concurrent requests from
// different sessions never share credentials. An empty answer means no
// credentials are attached.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Options modify a single call.
type Options struct {
	// PrivateRoute marks the call as requiring an authenticated context.
	PrivateRoute bool
	// Query is appended to the request path.
	Query url.Values
}

type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource

	// onUnauthorized runs once per 401 answer, before the error returns.
	onUnauthorized func(ctx context.Context)
}

type Option func(*Gateway)

// WithTimeout overrides the default 10s request bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.client.Timeout = d }
}

// WithUnauthorizedHook registers a callback for 401 answers from any
// endpoint, used to invalidate the calling request's session replica.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(g *Gateway) { g.onUnauthorized = fn }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Get(ctx context.Context, path string, out any, opts *Options) error {
	return g.do(ctx, http.MethodGet, path, nil, out, opts)
}

func (g *Gateway) Post(ctx context.Context, path string, body, out any, opts *Options) error {
	return g.do(ctx, http.MethodPost, path, body, out, opts)
}

func (g *Gateway) Put(ctx context.Context, path string, body, out any, opts *Options) error {
	return g.do(ctx, http.MethodPut, path, body, out, opts)
}

func (g *Gateway) Patch(ctx context.Context, path string, body, out any, opts *Options) error {
	return g.do(ctx, http.MethodPatch, path, body, out, opts)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any, opts *Options) error {
	return g.do(ctx, http.MethodDelete, path, nil, out, opts)
}

// GetList performs a listing call and returns the response metadata next to
// the unwrapped items.
func (g *Gateway) GetList(ctx context.Context, path string, out any, opts *Options) (*Metadata, error) {
	var env listEnvelope
	if err := g.do(ctx, http.MethodGet, path, nil, &env, opts); err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode list payload: %w", err)
		}
	}
	return env.Metadata, nil
}

func (g *Gateway) do(ctx context.Context, method, path string, body, out any, opts *Options) error {
	fullURL := g.baseURL + path
	if opts != nil && len(opts.Query) > 0 {
		fullURL += "?" + opts.Query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts != nil && opts.PrivateRoute {
		req.Header.Set(PrivateRouteHeader, "1")
	}
	// Credential interceptor: runs for every request, private or not.
	if g.tokens != nil {
		if token := g.tokens.AccessToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if requestID := ctx.Value(logger.RequestIDKey); requestID != nil {
		if id, ok := requestID.(string); ok {
			req.Header.Set("X-Request-ID", id)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &apierr.TimeoutError{Op: method + " " + path}
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && g.onUnauthorized != nil {
		g.onUnauthorized(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.TransportError{
			Status:  resp.StatusCode,
			Message: readErrorMessage(resp.Body),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := unwrap(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
