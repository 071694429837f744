package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"

	"thoreinstein.com/skinscout/pkg/api"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat converts user input into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.Newf("invalid output format %q (use table, json or yaml)", s)
}

// Renderer writes API responses in one format.
type Renderer struct {
	Format Format
	Now    func() time.Time
}

// NewRenderer creates a renderer for format.
func NewRenderer(format Format) *Renderer {
	return &Renderer{Format: format, Now: time.Now}
}

// Render writes resp to w. listings replaces resp.Listings so callers can
// pass a sorted copy.
func (r *Renderer) Render(w io.Writer, resp *api.Response, listings []api.Listing) error {
	out := *resp
	out.Listings = listings

	switch r.Format {
	case FormatJSON:
		return WriteJSON(w, out)
	case FormatYAML:
		return WriteYAML(w, out)
	default:
		return r.writeTable(w, &out)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode JSON")
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode YAML")
	}
	return errors.Wrap(enc.Close(), "failed to encode YAML")
}

func (r *Renderer) writeTable(w io.Writer, resp *api.Response) error {
	if len(resp.Listings) == 0 {
		_, err := fmt.Fprintln(w, "No listings found.")
		return err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "MARKET\tPRICE\tLOCAL\tFLOAT\tWEAR\tTRADE\tUPDATED\tURL")
	for _, l := range resp.Listings {
		local := "-"
		if l.Currency != "" && !strings.EqualFold(l.Currency, "USD") {
			local = FormatPrice(l.Price, l.Currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			MarketDisplayName(l.Market),
			FormatPrice(l.PriceUSD, "USD"),
			local,
			FormatFloat(l.Float),
			wearLabel(l),
			TradeStatus(l),
			FormatRelativeTime(l.UpdatedAt, now()),
			l.URL,
		)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write table")
	}

	summary := fmt.Sprintf("\n%d listing(s)", len(resp.Listings))
	if len(resp.Markets) > 0 {
		names := make([]string, len(resp.Markets))
		for i, m := range resp.Markets {
			names[i] = MarketDisplayName(m)
		}
		summary += " from " + strings.Join(names, ", ")
	}
	if resp.Metrics.ResponseTime > 0 {
		summary += fmt.Sprintf(" in %dms", resp.Metrics.ResponseTime)
	}
	if resp.Cached {
		summary += " (cached)"
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

// TradeStatus describes the listing's trade lock: "Lock 7d", "Yes" when
// there is no lock, or "-" when unknown.
func TradeStatus(l api.Listing) string {
	days, ok := l.TradeLockDays()
	if !ok {
		return "-"
	}
	if days > 0 {
		return fmt.Sprintf("Lock %dd", days)
	}
	return "Yes"
}

func wearLabel(l api.Listing) string {
	parts := make([]string, 0, 2)
	if l.Wear != "" {
		parts = append(parts, l.Wear)
	}
	if p := l.PhaseName(); p != "" {
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " / ")
}
