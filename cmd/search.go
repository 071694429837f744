package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"thoreinstein.com/skinscout/pkg/api"
	"thoreinstein.com/skinscout/pkg/config"
	"thoreinstein.com/skinscout/pkg/listing"
	"thoreinstein.com/skinscout/pkg/search"
)

var (
	searchQuery   = newQueryFlags()
	searchResults = newResultOptions()
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <skin name>",
	Short: "Search the cheapest listings for a skin",
	Long: `Search the cheapest listings for a skin across all marketplaces.

The search is recorded in the recent-search history before it is sent, so it
can be repeated with 'skinscout recent run'. Phase and wear accept loose input
such as "p2" or "ft".

Examples:
  skinscout search "AK-47 | Redline"
  skinscout search Karambit Doppler --float 0.03 --phase p2
  skinscout search "AWP | Asiimov" --wear ft --max-price 100 --sort float
  skinscout search "M4A4 | Howl" --market Skinport --output json`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			q, err := searchQuery.query(args, a.cfg.Search.DefaultLimit)
			if err != nil {
				return err
			}
			return runQuery(cmd, a, q, searchResults)
		})
	},
}

// resultOptions control how a query is executed and rendered.
type resultOptions struct {
	market   string
	sort     *enumFlag
	desc     bool
	output   *enumFlag
	noRecord bool
}

func newResultOptions() *resultOptions {
	fields := make([]string, len(listing.SortFields))
	for i, f := range listing.SortFields {
		fields[i] = string(f)
	}
	formats := make([]string, len(listing.Formats))
	for i, f := range listing.Formats {
		formats[i] = string(f)
	}
	return &resultOptions{
		sort:   newEnumFlag("", fields...),
		output: newEnumFlag(string(listing.FormatTable), formats...),
	}
}

func (o *resultOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.market, "market", "m", "", "Search a single marketplace")
	o.registerOutput(fs)
}

// registerOutput registers every option except --market.
func (o *resultOptions) registerOutput(fs *pflag.FlagSet) {
	fs.VarP(o.sort, "sort", "s", "Sort by price, float or updated (default from search.default_sort)")
	fs.BoolVar(&o.desc, "desc", false, "Sort in descending order")
	fs.VarP(o.output, "output", "o", "Output format: table, json or yaml")
	fs.BoolVar(&o.noRecord, "no-record", false, "Do not add the search to the recent-search history")
}

func (o *resultOptions) sortField(cfg *config.Config) (listing.SortField, listing.Direction, error) {
	name := o.sort.value
	if name == "" {
		name = cfg.Search.DefaultSort
	}
	field, err := listing.ParseSortField(name)
	if err != nil {
		return "", "", err
	}
	if o.desc {
		return field, listing.Desc, nil
	}
	return field, listing.Asc, nil
}

// runQuery records q, fetches its listings and renders them.
func runQuery(cmd *cobra.Command, a *app, q search.Query, o *resultOptions) error {
	ctx := cmd.Context()

	field, dir, err := o.sortField(a.cfg)
	if err != nil {
		return err
	}
	format, err := listing.ParseFormat(o.output.value)
	if err != nil {
		return err
	}

	if !o.noRecord {
		a.recent.Record(ctx, q)
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	a.logger.Debug("searching", "name", q.Name, "market", o.market, "url", search.ResultsURL(q))

	var resp *api.Response
	if o.market != "" {
		resp, err = client.Market(ctx, o.market, q)
	} else {
		resp, err = client.Cheapest(ctx, q)
	}
	if err != nil {
		return err
	}

	return listing.NewRenderer(format).Render(cmd.OutOrStdout(), resp, listing.Sort(resp.Listings, field, dir))
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchQuery.register(searchCmd.Flags())
	searchResults.register(searchCmd.Flags())
}
