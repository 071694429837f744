package cmd

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/api"
	skerrors "thoreinstein.com/skinscout/pkg/errors"
	"thoreinstein.com/skinscout/pkg/listing"
)

var (
	compareQuery   = newQueryFlags()
	compareResults = newResultOptions()
	compareMarkets []string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <skin name>",
	Short: "Compare listings for a skin across several marketplaces",
	Long: `Query several marketplaces concurrently and show their listings side by side.

Each marketplace is requested separately; one failing marketplace does not hide
the results of the others. At most api.max_concurrency requests run at once.

Examples:
  skinscout compare "AK-47 | Redline" --market CSFloat --market Skinport
  skinscout compare "AWP | Asiimov" -m BUFF,DMarket --wear ft --output json`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			q, err := compareQuery.query(args, a.cfg.Search.DefaultLimit)
			if err != nil {
				return err
			}
			if len(compareMarkets) == 0 {
				return errors.New("at least one --market is required")
			}
			field, dir, err := compareResults.sortField(a.cfg)
			if err != nil {
				return err
			}
			format, err := listing.ParseFormat(compareResults.output.value)
			if err != nil {
				return err
			}

			if !compareResults.noRecord {
				a.recent.Record(cmd.Context(), q)
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			results := client.Compare(cmd.Context(), compareMarkets, q)
			for i := range results {
				if results[i].Response != nil {
					sorted := *results[i].Response
					sorted.Listings = listing.Sort(sorted.Listings, field, dir)
					results[i].Response = &sorted
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case listing.FormatJSON:
				return listing.WriteJSON(out, compareReport(results))
			case listing.FormatYAML:
				return listing.WriteYAML(out, compareReport(results))
			default:
				return writeCompareTable(out, listing.NewRenderer(format), results)
			}
		})
	},
}

// compareEntry is one marketplace in structured compare output.
type compareEntry struct {
	Market   string        `json:"market" yaml:"market"`
	Listings []api.Listing `json:"listings" yaml:"listings"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func compareReport(results []api.MarketResult) []compareEntry {
	out := make([]compareEntry, len(results))
	for i, r := range results {
		out[i] = compareEntry{Market: r.Market, Listings: []api.Listing{}}
		if r.Err != nil {
			out[i].Error = userMessage(r.Err)
			continue
		}
		out[i].Listings = r.Response.Listings
	}
	return out
}

func writeCompareTable(w io.Writer, r *listing.Renderer, results []api.MarketResult) error {
	var best *api.Listing
	for _, res := range results {
		fmt.Fprintf(w, "== %s ==\n", listing.MarketDisplayName(res.Market))
		if res.Err != nil {
			fmt.Fprintf(w, "Error: %s\n\n", userMessage(res.Err))
			continue
		}
		if err := r.Render(w, res.Response, res.Response.Listings); err != nil {
			return err
		}
		fmt.Fprintln(w)

		for i := range res.Response.Listings {
			l := &res.Response.Listings[i]
			if best == nil || l.PriceUSD < best.PriceUSD {
				best = l
			}
		}
	}

	if best != nil {
		fmt.Fprintf(w, "Cheapest: %s on %s\n", listing.FormatPrice(best.PriceUSD, "USD"), listing.MarketDisplayName(best.Market))
	}
	return nil
}

// userMessage returns the API message for API errors and the error text
// otherwise.
func userMessage(err error) string {
	var apiErr *skerrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareQuery.register(compareCmd.Flags())
	compareResults.registerOutput(compareCmd.Flags())
	compareCmd.Flags().StringSliceVarP(&compareMarkets, "market", "m", nil, "Marketplace to compare (repeatable or comma-separated)")
}
