package search

import (
	"net/url"
	"strings"
	"testing"
)

func queriesEqual(a, b Query) bool {
	return a.Name == b.Name &&
		SameFloat(a.Float, b.Float) &&
		a.Phase == b.Phase &&
		a.Wear == b.Wear &&
		SameFloat(a.MaxPrice, b.MaxPrice) &&
		a.EffectiveLimit() == b.EffectiveLimit()
}

func TestEncode_OmitsAbsentFields(t *testing.T) {
	t.Parallel()

	v := Encode(Query{Name: "AK-47 | Redline"})

	if got := v.Get(ParamSkin); got != "AK-47 | Redline" {
		t.Errorf("skin = %q, want %q", got, "AK-47 | Redline")
	}

	for _, key := range []string{ParamFloat, ParamPhase, ParamWear, ParamMaxPrice, ParamLimit} {
		if _, ok := v[key]; ok {
			t.Errorf("Encode() should omit %q for an absent field, got %q", key, v.Get(key))
		}
	}
}

func TestEncode_Numbers(t *testing.T) {
	t.Parallel()

	v := Encode(Query{Name: "x", Float: Float64(0.03), MaxPrice: Float64(1500), Limit: 20})

	if got := v.Get(ParamFloat); got != "0.03" {
		t.Errorf("float = %q, want %q", got, "0.03")
	}
	if got := v.Get(ParamMaxPrice); got != "1500" {
		t.Errorf("maxPrice = %q, want %q", got, "1500")
	}
	if got := v.Get(ParamLimit); got != "20" {
		t.Errorf("limit = %q, want %q", got, "20")
	}
}

func TestEncode_ZeroFloatIsPresent(t *testing.T) {
	t.Parallel()

	v := Encode(Query{Name: "x", Float: Float64(0)})
	if got := v.Get(ParamFloat); got != "0" {
		t.Errorf("float = %q, want %q", got, "0")
	}

	q := Decode(v)
	if q.Float == nil || *q.Float != 0 {
		t.Errorf("Decode() float = %v, want 0", q.Float)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
	}{
		{name: "name only", query: Query{Name: "AWP | Asiimov"}},
		{name: "name with pipe and spaces", query: Query{Name: "Karambit | Doppler"}},
		{name: "float", query: Query{Name: "M4A4 | Howl", Float: Float64(0.0712345)}},
		{name: "phase and wear", query: Query{Name: "Karambit | Doppler", Phase: "Ruby", Wear: "Factory New"}},
		{name: "max price", query: Query{Name: "Glock-18 | Fade", MaxPrice: Float64(999.99)}},
		{name: "custom limit", query: Query{Name: "Desert Eagle | Blaze", Limit: 10}},
		{name: "everything", query: Query{
			Name:     "Butterfly Knife | Gamma Doppler",
			Float:    Float64(0.01),
			Phase:    "Emerald",
			Wear:     "Minimal Wear",
			MaxPrice: Float64(4200.5),
			Limit:    5,
		}},
		{name: "unicode name", query: Query{Name: "StatTrak™ AK-47 | Vulcan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DecodeString(EncodeQuery(tt.query))
			if !queriesEqual(got, tt.query) {
				t.Errorf("round trip = %+v, want %+v", got, tt.query)
			}
		})
	}
}

func TestRoundTrip_NameOnlyKeepsOtherFieldsAbsent(t *testing.T) {
	t.Parallel()

	got := Decode(Encode(Query{Name: "AK-47"}))

	if got.Name != "AK-47" {
		t.Errorf("Name = %q, want %q", got.Name, "AK-47")
	}
	if got.Float != nil {
		t.Errorf("Float = %v, want nil", *got.Float)
	}
	if got.MaxPrice != nil {
		t.Errorf("MaxPrice = %v, want nil", *got.MaxPrice)
	}
	if got.Phase != "" || got.Wear != "" {
		t.Errorf("Phase/Wear = %q/%q, want empty", got.Phase, got.Wear)
	}
	if got.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", got.Limit, DefaultLimit)
	}
}

func TestDecode_Lenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		raw          string
		wantName     string
		wantFloat    *float64
		wantMaxPrice *float64
		wantLimit    int
	}{
		{name: "empty", raw: "", wantLimit: DefaultLimit},
		{name: "missing skin", raw: "float=0.2", wantFloat: Float64(0.2), wantLimit: DefaultLimit},
		{name: "non-numeric float", raw: "skin=x&float=abc", wantName: "x", wantLimit: DefaultLimit},
		{name: "empty float", raw: "skin=x&float=", wantName: "x", wantLimit: DefaultLimit},
		{name: "NaN float", raw: "skin=x&float=NaN", wantName: "x", wantLimit: DefaultLimit},
		{name: "non-numeric maxPrice", raw: "skin=x&maxPrice=cheap", wantName: "x", wantLimit: DefaultLimit},
		{name: "non-numeric limit", raw: "skin=x&limit=lots", wantName: "x", wantLimit: DefaultLimit},
		{name: "negative limit", raw: "skin=x&limit=-3", wantName: "x", wantLimit: DefaultLimit},
		{name: "valid limit", raw: "skin=x&limit=7", wantName: "x", wantLimit: 7},
		{name: "full URL", raw: "/results?skin=AK-47&maxPrice=12.5", wantName: "AK-47", wantMaxPrice: Float64(12.5), wantLimit: DefaultLimit},
		{name: "bad escape", raw: "skin=%zz&float=0.5", wantFloat: Float64(0.5), wantLimit: DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DecodeString(tt.raw)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if !SameFloat(got.Float, tt.wantFloat) {
				t.Errorf("Float = %v, want %v", got.Float, tt.wantFloat)
			}
			if !SameFloat(got.MaxPrice, tt.wantMaxPrice) {
				t.Errorf("MaxPrice = %v, want %v", got.MaxPrice, tt.wantMaxPrice)
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", got.Limit, tt.wantLimit)
			}
		})
	}
}

func TestResultsURL_DopplerSearch(t *testing.T) {
	t.Parallel()

	q := Query{Name: "Karambit | Doppler", Float: Float64(0.03), Phase: "Phase 2", Limit: DefaultLimit}

	u := ResultsURL(q)
	if !strings.HasPrefix(u, ResultsPath+"?") {
		t.Fatalf("ResultsURL() = %q, want prefix %q", u, ResultsPath+"?")
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("url.Parse(%q) failed: %v", u, err)
	}

	got := Decode(parsed.Query())
	if got.Name != "Karambit | Doppler" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Float == nil || *got.Float != 0.03 {
		t.Errorf("Float = %v, want 0.03", got.Float)
	}
	if got.Phase != "Phase 2" {
		t.Errorf("Phase = %q, want %q", got.Phase, "Phase 2")
	}
	if got.Wear != "" {
		t.Errorf("Wear = %q, want empty", got.Wear)
	}
	if got.MaxPrice != nil {
		t.Errorf("MaxPrice = %v, want nil", *got.MaxPrice)
	}
	if got.Limit != 50 {
		t.Errorf("Limit = %d, want 50", got.Limit)
	}
}

func TestAPIParams(t *testing.T) {
	t.Parallel()

	v := Query{Name: "AK-47", Wear: "Field-Tested"}.APIParams()

	if got := v.Get("name"); got != "AK-47" {
		t.Errorf("name = %q, want %q", got, "AK-47")
	}
	if got := v.Get("wear"); got != "Field-Tested" {
		t.Errorf("wear = %q, want %q", got, "Field-Tested")
	}
	if got := v.Get("limit"); got != "50" {
		t.Errorf("limit = %q, want %q", got, "50")
	}
	if _, ok := v["skin"]; ok {
		t.Error("APIParams() must not use the URL key skin")
	}
	if _, ok := v["float"]; ok {
		t.Error("APIParams() should omit an absent float")
	}
}

func TestIsExecutable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"AK-47", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		if got := (Query{Name: tt.name}).IsExecutable(); got != tt.want {
			t.Errorf("IsExecutable(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSameFloat(t *testing.T) {
	t.Parallel()

	if !SameFloat(nil, nil) {
		t.Error("two absent floats should be equal")
	}
	if SameFloat(nil, Float64(0)) {
		t.Error("absent and zero should differ")
	}
	if !SameFloat(Float64(0.01), Float64(0.01)) {
		t.Error("equal floats should be equal")
	}
	if SameFloat(Float64(0.01), Float64(0.5)) {
		t.Error("different floats should differ")
	}
}
