package cmd

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"thoreinstein.com/skinscout/pkg/search"
)

// optionalFloat is a float flag that stays nil until set, so "--float 0"
// and an omitted --float remain distinct.
type optionalFloat struct {
	value    *float64
	min, max float64
}

var _ pflag.Value = (*optionalFloat)(nil)

func newOptionalFloat(min, max float64) *optionalFloat {
	return &optionalFloat{min: min, max: max}
}

func (f *optionalFloat) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

// Set parses s. An empty string clears the value.
func (f *optionalFloat) Set(s string) error {
	if strings.TrimSpace(s) == "" {
		f.value = nil
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Newf("%q is not a number", s)
	}
	if v < f.min || v > f.max {
		return errors.Newf("%s is outside %s..%s", s,
			strconv.FormatFloat(f.min, 'f', -1, 64), strconv.FormatFloat(f.max, 'f', -1, 64))
	}
	f.value = &v
	return nil
}

func (f *optionalFloat) Type() string {
	return "float"
}

// enumFlag is a string flag restricted to a fixed set of values.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	return &enumFlag{value: def, allowed: allowed}
}

func (e *enumFlag) String() string {
	return e.value
}

func (e *enumFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(e.allowed, s) {
		return errors.Newf("must be one of %s", strings.Join(e.allowed, ", "))
	}
	e.value = s
	return nil
}

func (e *enumFlag) Type() string {
	return "string"
}

// queryFlags are the search filters shared by search, url and compare.
type queryFlags struct {
	float    *optionalFloat
	maxPrice *optionalFloat
	phase    string
	wear     string
	limit    int
}

func newQueryFlags() *queryFlags {
	return &queryFlags{
		float:    newOptionalFloat(0, 1),
		maxPrice: newOptionalFloat(0, math.MaxFloat64),
	}
}

func (f *queryFlags) register(fs *pflag.FlagSet) {
	fs.Var(f.float, "float", "Target float value (0-1)")
	fs.Var(f.maxPrice, "max-price", "Maximum price in USD")
	fs.StringVar(&f.phase, "phase", "", "Doppler phase (e.g. \"Phase 2\", \"p2\", \"ruby\")")
	fs.StringVar(&f.wear, "wear", "", "Wear category (e.g. \"Factory New\", \"ft\")")
	fs.IntVar(&f.limit, "limit", 0, "Maximum number of listings (default from search.default_limit)")
}

// query builds a Query from the positional name words and the flags.
func (f *queryFlags) query(args []string, defaultLimit int) (search.Query, error) {
	q := search.Query{
		Name:     strings.TrimSpace(strings.Join(args, " ")),
		Float:    f.float.value,
		MaxPrice: f.maxPrice.value,
		Phase:    search.NormalizePhase(f.phase),
		Wear:     search.NormalizeWear(f.wear),
		Limit:    f.limit,
	}
	if !q.IsExecutable() {
		return search.Query{}, errSkinRequired
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit <= 0 {
		q.Limit = search.DefaultLimit
	}
	return q, nil
}

var errSkinRequired = errors.New("skin name is required")
