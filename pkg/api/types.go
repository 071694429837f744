package api

import (
	"encoding/json"
	"time"
)

// Listing is one normalized marketplace offer as returned by the
// aggregation API.
type Listing struct {
	Market    string   `json:"market" yaml:"market"`
	Price     float64  `json:"price" yaml:"price"`
	PriceUSD  float64  `json:"price_usd" yaml:"price_usd"`
	Currency  string   `json:"currency" yaml:"currency"`
	Name      string   `json:"name" yaml:"name"`
	URL       string   `json:"url" yaml:"url"`
	Float     *float64 `json:"float,omitempty" yaml:"float,omitempty"`
	ImageURL  string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Phase     *string  `json:"phase,omitempty" yaml:"phase,omitempty"`
	Wear      string   `json:"wear,omitempty" yaml:"wear,omitempty"`
	UpdatedAt int64    `json:"updated_at" yaml:"updated_at"` // milliseconds since epoch

	// Extra carries marketplace-specific data. Keys are not fixed.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Sticker is one sticker applied to a listed item.
type Sticker struct {
	Name    string `json:"name" yaml:"name"`
	Slot    int    `json:"slot" yaml:"slot"`
	IconURL string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// Updated returns UpdatedAt as a time.Time.
func (l Listing) Updated() time.Time {
	return time.UnixMilli(l.UpdatedAt)
}

// PhaseName returns the phase or "" when absent.
func (l Listing) PhaseName() string {
	if l.Phase == nil {
		return ""
	}
	return *l.Phase
}

// TradeLockDays returns the trade lock duration in days, if present.
func (l Listing) TradeLockDays() (int, bool) {
	f, ok := l.extraNumber("tradeLockDuration")
	return int(f), ok
}

// Tradable reports the tradable flag, if present.
func (l Listing) Tradable() (bool, bool) {
	v, ok := l.Extra["tradable"].(bool)
	return v, ok
}

// OfferID returns the marketplace offer id, if present.
func (l Listing) OfferID() (string, bool) {
	switch v := l.Extra["offerId"].(type) {
	case string:
		return v, v != ""
	case float64:
		b, _ := json.Marshal(v)
		return string(b), true
	}
	return "", false
}

// PaintSeed returns the paint seed, if present.
func (l Listing) PaintSeed() (int, bool) {
	f, ok := l.extraNumber("paintSeed")
	return int(f), ok
}

// InspectLink returns the in-game inspect link, if present.
func (l Listing) InspectLink() (string, bool) {
	v, ok := l.Extra["inspectLink"].(string)
	return v, ok && v != ""
}

// Stickers decodes the stickers entry, if present and well-formed.
func (l Listing) Stickers() []Sticker {
	raw, ok := l.Extra["stickers"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var stickers []Sticker
	if err := json.Unmarshal(data, &stickers); err != nil {
		return nil
	}
	return stickers
}

func (l Listing) extraNumber(key string) (float64, bool) {
	switch v := l.Extra[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Metrics summarizes an API response.
type Metrics struct {
	Total        int   `json:"total" yaml:"total"`
	ResponseTime int64 `json:"responseTime" yaml:"responseTime"` // milliseconds
}

// Response is the aggregation API response envelope.
type Response struct {
	Listings  []Listing `json:"listings" yaml:"listings"`
	Timestamp int64     `json:"timestamp" yaml:"timestamp"`
	Cached    bool      `json:"cached" yaml:"cached"`
	Markets   []string  `json:"markets" yaml:"markets"`
	Metrics   Metrics   `json:"metrics" yaml:"metrics"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status string `json:"status" yaml:"status"`
}

// errorBody is the subset of an error response the client reads.
type errorBody struct {
	Error string `json:"error"`
}
