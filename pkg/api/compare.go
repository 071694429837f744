package api

import (
	"context"
	"strings"

	"github.com/alitto/pond/v2"

	"thoreinstein.com/skinscout/pkg/search"
)

// MarketResult is the outcome of one per-market request in Compare.
type MarketResult struct {
	Market   string
	Response *Response
	Err      error
}

// Compare queries each market concurrently, at most maxConcurrency at a
// time. Results keep the order of markets; blank and repeated market names
// are skipped. A failing market does not affect the others.
func (c *Client) Compare(ctx context.Context, markets []string, q search.Query) []MarketResult {
	names := uniqueMarkets(markets)
	results := make([]MarketResult, len(names))
	if len(names) == 0 {
		return results
	}

	pool := pond.NewPool(min(c.maxConcurrency, len(names)))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i, market := range names {
		group.Submit(func() {
			resp, err := c.Market(ctx, market, q)
			results[i] = MarketResult{Market: market, Response: resp, Err: err}
		})
	}
	_ = group.Wait()

	return results
}

func uniqueMarkets(markets []string) []string {
	seen := make(map[string]bool, len(markets))
	out := make([]string, 0, len(markets))
	for _, m := range markets {
		m = strings.TrimSpace(m)
		key := strings.ToLower(m)
		if m == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}
