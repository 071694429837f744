package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skerrors "thoreinstein.com/skinscout/pkg/errors"
	"thoreinstein.com/skinscout/pkg/search"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const sampleResponse = `{
  "listings": [
    {"market":"Skinport","price":10.5,"price_usd":11.2,"currency":"EUR","name":"AK-47 | Redline","url":"https://skinport.com/x","float":0.15,"updated_at":1700000000000,
     "extra":{"tradeLockDuration":7,"tradable":false,"offerId":"abc","paintSeed":661,"inspectLink":"steam://x","stickers":[{"name":"Crown","slot":0}],"vendorRank":3}},
    {"market":"CSFloat","price":12,"price_usd":12,"currency":"USD","name":"AK-47 | Redline","url":"https://csfloat.com/y","float":null,"phase":null,"updated_at":1700000001000}
  ],
  "timestamp": 1700000002000,
  "cached": false,
  "markets": ["Skinport","CSFloat"],
  "metrics": {"total": 2, "responseTime": 321}
}`

func newTestClient(t *testing.T, url string, opts Options) *Client {
	t.Helper()
	opts.BaseURL = url
	c, err := NewClient(opts, WithLogger(discard))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Options{})
	require.Error(t, err)
	assert.True(t, skerrors.IsConfigError(err))

	_, err = NewClient(Options{BaseURL: "not a url"})
	require.Error(t, err)
	assert.True(t, skerrors.IsConfigError(err))
}

func TestCheapest(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(APIKeyHeader)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/", Options{APIKey: "secret"})
	q := search.Query{Name: "AK-47 | Redline", Float: search.Float64(0.15), Wear: "Field-Tested"}

	resp, err := c.Cheapest(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/cheapest", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, []string{"AK-47 | Redline"}, gotQuery["name"])
	assert.Equal(t, []string{"0.15"}, gotQuery["float"])
	assert.Equal(t, []string{"Field-Tested"}, gotQuery["wear"])
	assert.NotContains(t, gotQuery, "phase")
	assert.NotContains(t, gotQuery, "maxPrice")

	require.Len(t, resp.Listings, 2)
	assert.Equal(t, []string{"Skinport", "CSFloat"}, resp.Markets)
	assert.Equal(t, 2, resp.Metrics.Total)
	assert.Equal(t, int64(321), resp.Metrics.ResponseTime)

	first := resp.Listings[0]
	require.NotNil(t, first.Float)
	assert.InDelta(t, 0.15, *first.Float, 1e-9)
	assert.Nil(t, resp.Listings[1].Float)
	assert.Equal(t, "", resp.Listings[1].PhaseName())

	days, ok := first.TradeLockDays()
	assert.True(t, ok)
	assert.Equal(t, 7, days)
	tradable, ok := first.Tradable()
	assert.True(t, ok)
	assert.False(t, tradable)
	offer, _ := first.OfferID()
	assert.Equal(t, "abc", offer)
	seed, _ := first.PaintSeed()
	assert.Equal(t, 661, seed)
	link, _ := first.InspectLink()
	assert.Equal(t, "steam://x", link)
	assert.Equal(t, []Sticker{{Name: "Crown", Slot: 0}}, first.Stickers())
	assert.Equal(t, float64(3), first.Extra["vendorRank"], "unknown extra keys are preserved")
}

func TestCheapest_NoAPIKeyHeaderWhenUnset(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[http.CanonicalHeaderKey(APIKeyHeader)]
		_, _ = io.WriteString(w, `{"listings":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Options{})
	resp, err := c.Cheapest(context.Background(), search.Query{Name: "x"})
	require.NoError(t, err)
	assert.False(t, present)
	assert.NotNil(t, resp.Listings)
}

func TestCheapest_ErrorResponses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		retryable bool
	}{
		{
			name:    "server error field wins",
			status:  http.StatusBadRequest,
			body:    `{"error":"Skin name is required"}`,
			wantMsg: "Skin name is required",
		},
		{
			name:      "fallback message",
			status:    http.StatusServiceUnavailable,
			body:      `<html>down</html>`,
			wantMsg:   "API Error: 503 Service Unavailable",
			retryable: true,
		},
		{
			name:    "empty error field",
			status:  http.StatusNotFound,
			body:    `{"error":""}`,
			wantMsg: "API Error: 404 Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, Options{})
			_, err := c.Cheapest(context.Background(), search.Query{Name: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var apiErr *skerrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.retryable, apiErr.Retryable)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, Options{Timeout: time.Second})

	_, err := c.Cheapest(context.Background(), search.Query{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch listings. Please try again later.", err.Error())

	_, err = c.Market(context.Background(), "Skinport", search.Query{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch listings from Skinport. Please try again later.", err.Error())

	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API server seems to be down. Please try again later.", err.Error())
}

func TestMarket(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Options{})
	_, err := c.Market(context.Background(), "CS.MONEY", search.Query{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/market/CS.MONEY", gotPath)

	_, err = c.Market(context.Background(), "  ", search.Query{Name: "x"})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(HealthStatus{Status: "ok"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Options{})
	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
}

func TestHealth_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Options{})
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API server seems to be down. Please try again later.", err.Error())
}

func TestCache(t *testing.T) {
	var calls atomic.Int32
	fail := atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewClient(Options{BaseURL: srv.URL, CacheTTL: 30 * time.Second},
		WithLogger(discard),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	ctx := context.Background()
	q := search.Query{Name: "AK-47 | Redline"}

	_, err = c.Cheapest(ctx, q)
	require.NoError(t, err)
	_, err = c.Cheapest(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second identical call should be served from cache")

	// Different parameters miss the cache.
	_, err = c.Cheapest(ctx, search.Query{Name: "AK-47 | Redline", Wear: "Factory New"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	// Same parameters on another endpoint miss the cache.
	_, err = c.Market(ctx, "Skinport", q)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	// Expiry.
	now = now.Add(31 * time.Second)
	fail.Store(true)
	_, err = c.Cheapest(ctx, q)
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())

	// Errors are not cached.
	_, err = c.Cheapest(ctx, q)
	require.Error(t, err)
	assert.Equal(t, int32(5), calls.Load())
}

func TestCompare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		market := strings.TrimPrefix(r.URL.Path, "/market/")
		if market == "BUFF" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"BUFF is unavailable"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(Response{
			Listings: []Listing{{Market: market, PriceUSD: 1}},
			Markets:  []string{market},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Options{MaxConcurrency: 2})
	results := c.Compare(context.Background(),
		[]string{"Skinport", "BUFF", " ", "CSFloat", "skinport"},
		search.Query{Name: "AK-47 | Redline"},
	)

	require.Len(t, results, 3)
	assert.Equal(t, "Skinport", results[0].Market)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Skinport", results[0].Response.Listings[0].Market)

	assert.Equal(t, "BUFF", results[1].Market)
	require.Error(t, results[1].Err)
	assert.Equal(t, "BUFF is unavailable", results[1].Err.Error())
	assert.Nil(t, results[1].Response)

	assert.Equal(t, "CSFloat", results[2].Market)
	require.NoError(t, results[2].Err)
}

func TestCompare_NoMarkets(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", Options{})
	assert.Empty(t, c.Compare(context.Background(), nil, search.Query{Name: "x"}))
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", Options{})
	assert.Equal(t, DefaultTimeout, c.http.GetClient().Timeout)

	c = newTestClient(t, "http://127.0.0.1:1", Options{Timeout: 2 * time.Second})
	assert.Equal(t, 2*time.Second, c.http.GetClient().Timeout)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, Options{Timeout: 100 * time.Millisecond})

	start := time.Now()
	_, err := c.Cheapest(context.Background(), search.Query{Name: "x"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "Failed to fetch listings. Please try again later.", err.Error())

	var apiErr *skerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Cheapest", apiErr.Operation)
	assert.Zero(t, apiErr.StatusCode)
}

func TestCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(300 * time.Millisecond)
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Options{CacheTTL: time.Minute})
	q := search.Query{Name: "AK-47 | Redline"}

	ctx1, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Cheapest(ctx1, q)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	var second *Response
	go func() {
		resp, err := c.Cheapest(context.Background(), q)
		second = resp
		secondErr <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-firstErr:
		require.Error(t, err, "the cancelled caller returns without waiting for the response")
		assert.True(t, skerrors.IsAPIError(err))
	case <-time.After(200 * time.Millisecond):
		t.Fatal("cancelled caller kept waiting on the shared request")
	}

	require.NoError(t, <-secondErr)
	require.Len(t, second.Listings, 2)
	assert.Equal(t, int32(1), calls.Load(), "identical requests share one upstream call")

	// The shared result was cached for later callers.
	_, err := c.Cheapest(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
