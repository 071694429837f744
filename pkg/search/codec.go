package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// URL query-string parameter names.
const (
	ParamSkin     = "skin"
	ParamFloat    = "float"
	ParamPhase    = "phase"
	ParamWear     = "wear"
	ParamMaxPrice = "maxPrice"
	ParamLimit    = "limit"
)

// ResultsPath is the path of the shareable results page.
const ResultsPath = "/results"

// Encode converts q into URL query parameters. Absent optional fields are
// omitted entirely; the limit is only written when it differs from the default.
func Encode(q Query) url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set(ParamSkin, q.Name)
	}
	if q.Float != nil {
		v.Set(ParamFloat, formatNumber(*q.Float))
	}
	if q.Phase != "" {
		v.Set(ParamPhase, q.Phase)
	}
	if q.Wear != "" {
		v.Set(ParamWear, q.Wear)
	}
	if q.MaxPrice != nil {
		v.Set(ParamMaxPrice, formatNumber(*q.MaxPrice))
	}
	if q.Limit > 0 && q.Limit != DefaultLimit {
		v.Set(ParamLimit, strconv.Itoa(q.Limit))
	}
	return v
}

// EncodeQuery returns the encoded query string for q, without a leading "?".
func EncodeQuery(q Query) string {
	return Encode(q).Encode()
}

// ResultsURL returns the results page URL for q, e.g. /results?skin=AK-47.
func ResultsURL(q Query) string {
	return ResultsPath + "?" + EncodeQuery(q)
}

// Decode parses URL query parameters into a Query. It never fails:
// a missing skin yields an empty name, malformed numbers are treated as
// absent and the limit falls back to DefaultLimit.
func Decode(v url.Values) Query {
	q := Query{
		Name:     v.Get(ParamSkin),
		Float:    parseNumber(v.Get(ParamFloat)),
		Phase:    v.Get(ParamPhase),
		Wear:     v.Get(ParamWear),
		MaxPrice: parseNumber(v.Get(ParamMaxPrice)),
		Limit:    DefaultLimit,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamLimit))); err == nil && n > 0 {
		q.Limit = n
	}
	return q
}

// DecodeString decodes a raw query string or a full URL such as
// "/results?skin=AK-47&float=0.01". Unparseable input decodes to an empty query.
func DecodeString(raw string) Query {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	// ParseQuery returns whatever it could parse alongside the first error.
	v, _ := url.ParseQuery(raw)
	return Decode(v)
}

// APIParams converts q into the parameters of the aggregation API.
// The API names the item "name" where the shareable URL uses "skin".
func (q Query) APIParams() url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Float != nil {
		v.Set("float", formatNumber(*q.Float))
	}
	if q.Phase != "" {
		v.Set("phase", q.Phase)
	}
	if q.Wear != "" {
		v.Set("wear", q.Wear)
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", formatNumber(*q.MaxPrice))
	}
	v.Set("limit", strconv.Itoa(q.EffectiveLimit()))
	return v
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
