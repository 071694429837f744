// Package api is the client for the external skin-price aggregation API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	skerrors "thoreinstein.com/skinscout/pkg/errors"
	"thoreinstein.com/skinscout/pkg/search"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxConcurrency bounds parallel per-market requests in Compare.
	DefaultMaxConcurrency = 4

	// APIKeyHeader carries the optional API key.
	APIKeyHeader = "X-API-Key"
)

const (
	msgFetchFailed = "Failed to fetch listings. Please try again later."
	msgServerDown  = "API server seems to be down. Please try again later."
)

// Searcher is the read side of the aggregation API used by the CLI and the
// web front end.
type Searcher interface {
	Cheapest(ctx context.Context, q search.Query) (*Response, error)
	Market(ctx context.Context, market string, q search.Query) (*Response, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

// Compile-time interface check
var _ Searcher = (*Client)(nil)

// Options configures a Client.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	APIKey         string
	CacheTTL       time.Duration // zero disables the result cache
	MaxConcurrency int
	UserAgent      string
}

// Client calls the aggregation API. It never retries; a failed call is
// reported once with a user-facing message.
type Client struct {
	http           *resty.Client
	logger         *slog.Logger
	cache          *resultCache
	maxConcurrency int
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if c.cache != nil {
			c.cache.now = now
		}
	}
}

// NewClient creates a client for the API at opts.BaseURL.
func NewClient(opts Options, clientOpts ...ClientOption) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, skerrors.NewConfigError("api.base_url", "is required")
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, skerrors.NewConfigErrorWithCause("api.base_url", "must be an absolute URL", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		hc.SetHeader(APIKeyHeader, opts.APIKey)
	}
	if opts.UserAgent != "" {
		hc.SetHeader("User-Agent", opts.UserAgent)
	}

	c := &Client{
		http:           hc,
		logger:         slog.Default(),
		maxConcurrency: opts.MaxConcurrency,
	}
	if c.maxConcurrency <= 0 {
		c.maxConcurrency = DefaultMaxConcurrency
	}
	if opts.CacheTTL > 0 {
		c.cache = newResultCache(opts.CacheTTL)
	}

	for _, opt := range clientOpts {
		opt(c)
	}

	return c, nil
}

// Cheapest fetches the cheapest listings across all marketplaces.
func (c *Client) Cheapest(ctx context.Context, q search.Query) (*Response, error) {
	params := q.APIParams()
	return c.cached(ctx, "Cheapest", "", "/cheapest", params)
}

// Market fetches listings from a single marketplace.
func (c *Client) Market(ctx context.Context, market string, q search.Query) (*Response, error) {
	market = strings.TrimSpace(market)
	if market == "" {
		return nil, skerrors.NewAPIError("Market", "market name is required")
	}

	path := "/market/" + url.PathEscape(market)
	params := q.APIParams()
	return c.cached(ctx, "Market", market, path, params)
}

// Health checks the API health endpoint. Any failure reports the server as
// down.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		c.logger.Debug("health check failed", "error", err)
		return nil, skerrors.NewAPIErrorWithCause("Health", msgServerDown, err)
	}
	if resp.IsError() {
		c.logger.Debug("health check failed", "status", resp.StatusCode())
		return nil, skerrors.NewAPIErrorWithStatus("Health", resp.StatusCode(), msgServerDown)
	}

	var status HealthStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, skerrors.NewAPIErrorWithCause("Health", msgServerDown, err)
	}
	return &status, nil
}

func (c *Client) cached(ctx context.Context, operation, market, path string, params url.Values) (*Response, error) {
	if c.cache == nil {
		return c.fetchListings(ctx, operation, market, path, params)
	}

	key := path + "?" + params.Encode()
	resp, hit, err := c.cache.do(ctx, key, func(ctx context.Context) (*Response, error) {
		return c.fetchListings(ctx, operation, market, path, params)
	})
	if err != nil && ctx.Err() != nil && !skerrors.IsAPIError(err) {
		return nil, skerrors.NewAPIErrorWithCause(operation, transportMessage(market), err).WithMarket(market)
	}
	if hit {
		c.logger.Debug("api cache hit", "key", key)
	}
	return resp, err
}

func (c *Client) fetchListings(ctx context.Context, operation, market, path string, params url.Values) (*Response, error) {
	start := time.Now()
	c.logger.Debug("api request", "path", path, "params", params.Encode())

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		c.logger.Debug("api request failed", "path", path, "error", err)
		return nil, skerrors.NewAPIErrorWithCause(operation, transportMessage(market), err).WithMarket(market)
	}

	c.logger.Debug("api response",
		"path", path,
		"status", resp.StatusCode(),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.IsError() {
		var body errorBody
		_ = json.Unmarshal(resp.Body(), &body)
		return nil, skerrors.NewAPIErrorWithStatus(operation, resp.StatusCode(), body.Error).WithMarket(market)
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, skerrors.NewAPIErrorWithCause(operation, transportMessage(market), err).WithMarket(market)
	}
	if out.Listings == nil {
		out.Listings = []Listing{}
	}
	return &out, nil
}

func transportMessage(market string) string {
	if market == "" {
		return msgFetchFailed
	}
	return "Failed to fetch listings from " + market + ". Please try again later."
}
