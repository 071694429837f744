// Package listing sorts and renders aggregated marketplace listings.
package listing

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"thoreinstein.com/skinscout/pkg/api"
)

// SortField selects the listing attribute to order by.
type SortField string

// Sort fields.
const (
	ByPrice   SortField = "price"
	ByFloat   SortField = "float"
	ByUpdated SortField = "updated"
)

// SortFields lists the accepted sort fields.
var SortFields = []SortField{ByPrice, ByFloat, ByUpdated}

// Direction is the sort order.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// missingFloat is where listings without a float sort, after every real
// float value in ascending order.
const missingFloat = 1.0

// ParseSortField converts user input into a SortField.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return ByPrice, nil
	}
	if !slices.Contains(SortFields, f) {
		return "", errors.Newf("invalid sort field %q (use price, float or updated)", s)
	}
	return f, nil
}

// Sort returns a copy of listings ordered by field. The sort is stable and
// the input slice is left untouched. Price uses the USD price.
func Sort(listings []api.Listing, field SortField, dir Direction) []api.Listing {
	out := slices.Clone(listings)
	if out == nil {
		return []api.Listing{}
	}

	key := sortKey(field)
	slices.SortStableFunc(out, func(a, b api.Listing) int {
		c := compareFloat(key(a), key(b))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

func sortKey(field SortField) func(api.Listing) float64 {
	switch field {
	case ByFloat:
		return func(l api.Listing) float64 {
			if l.Float == nil {
				return missingFloat
			}
			return *l.Float
		}
	case ByUpdated:
		return func(l api.Listing) float64 { return float64(l.UpdatedAt) }
	default:
		return func(l api.Listing) float64 { return l.PriceUSD }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
