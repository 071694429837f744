// Package search defines the canonical skin search query and its
// URL query-string representation.
package search

import "strings"

// DefaultLimit is the number of listings requested when no limit is given.
const DefaultLimit = 50

// Wear categories accepted by the aggregation API.
var WearCategories = []string{
	"Factory New",
	"Minimal Wear",
	"Field-Tested",
	"Well-Worn",
	"Battle-Scarred",
}

// Phases accepted by the aggregation API (Doppler and Gamma Doppler finishes).
var Phases = []string{
	"Phase 1",
	"Phase 2",
	"Phase 3",
	"Phase 4",
	"Ruby",
	"Sapphire",
	"Black Pearl",
	"Emerald",
}

// Query is a single skin search request.
// Optional numeric filters are pointers so that "absent" and zero stay distinct.
type Query struct {
	Name     string   `json:"name" yaml:"name"`
	Float    *float64 `json:"float,omitempty" yaml:"float,omitempty"`
	Phase    string   `json:"phase,omitempty" yaml:"phase,omitempty"`
	Wear     string   `json:"wear,omitempty" yaml:"wear,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty" yaml:"maxPrice,omitempty"`
	Limit    int      `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// IsExecutable reports whether the query has a non-blank name.
// Queries that are not executable must never be submitted or recorded.
func (q Query) IsExecutable() bool {
	return strings.TrimSpace(q.Name) != ""
}

// EffectiveLimit returns Limit, or DefaultLimit when unset.
func (q Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// SameFloat reports whether two optional floats are equal, treating two
// absent values as equal.
func SameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Float64 returns a pointer to v. It is a convenience for building queries.
func Float64(v float64) *float64 {
	return &v
}
