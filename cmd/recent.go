package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/listing"
	"thoreinstein.com/skinscout/pkg/recent"
	"thoreinstein.com/skinscout/pkg/search"
)

var (
	recentClearYes bool
	recentFilter   string
	recentOutput   = newEnumFlag(string(listing.FormatTable), "table", "json", "yaml")
	recentResults  = newResultOptions()
)

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Manage the recent-search history",
	Long: `List, repeat and clear recent searches.

The history keeps the last 10 searches, newest first. Searching the same skin
name (case-insensitive) with the same float again moves it to the top.`,
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	Long: `List recent searches, newest first.

Examples:
  skinscout recent list
  skinscout recent list --filter redline
  skinscout recent list --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			entries := filterEntries(a.recent.List(cmd.Context()), recentFilter)

			out := cmd.OutOrStdout()
			switch listing.Format(recentOutput.value) {
			case listing.FormatJSON:
				return listing.WriteJSON(out, entries)
			case listing.FormatYAML:
				return listing.WriteYAML(out, entries)
			default:
				return writeRecentTable(out, entries, time.Now())
			}
		})
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the recent-search history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !recentClearYes {
			if p := newPrompter(); p.IsInteractive() {
				ok, err := p.Confirm("Clear all recent searches?", false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
		}
		return withApp(cmd, func(a *app) error {
			a.recent.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Recent searches cleared.")
			return nil
		})
	},
}

var recentRunCmd = &cobra.Command{
	Use:   "run [n]",
	Short: "Repeat a recent search",
	Long: `Repeat a recent search. n is the position shown by 'skinscout recent list'
(1 is the newest). Without n, the search is picked interactively.

Examples:
  skinscout recent run 1
  skinscout recent run --output json 3
  skinscout recent run`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			entries := a.recent.List(cmd.Context())
			if len(entries) == 0 {
				return errors.New("no recent searches")
			}

			idx, err := pickEntry(entries, args)
			if err != nil {
				return err
			}
			return runQuery(cmd, a, entries[idx].Params, recentResults)
		})
	},
}

func pickEntry(entries []recent.Entry, args []string) (int, error) {
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(entries) {
			return -1, errors.Newf("invalid entry %q: choose 1-%d", args[0], len(entries))
		}
		return n - 1, nil
	}

	options := make([]string, len(entries))
	for i, e := range entries {
		options[i] = e.Params.Name
		if filters := describeFilters(e.Params); filters != "" {
			options[i] += "  (" + filters + ")"
		}
	}
	return selectEntry("Recent search", options)
}

// filterEntries keeps entries whose name fuzzy-matches filter.
func filterEntries(entries []recent.Entry, filter string) []recent.Entry {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return entries
	}
	out := make([]recent.Entry, 0, len(entries))
	for _, e := range entries {
		if fuzzy.MatchNormalizedFold(filter, e.Params.Name) {
			out = append(out, e)
		}
	}
	return out
}

func writeRecentTable(w io.Writer, entries []recent.Entry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No recent searches.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tFILTERS\tSEARCHED")
	for i, e := range entries {
		filters := describeFilters(e.Params)
		if filters == "" {
			filters = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, e.Params.Name, filters, listing.FormatRelativeTime(e.Timestamp, now))
	}
	return errors.Wrap(tw.Flush(), "failed to write table")
}

// describeFilters summarizes the optional fields of q.
func describeFilters(q search.Query) string {
	var parts []string
	if q.Float != nil {
		parts = append(parts, "float "+listing.FormatFloat(q.Float))
	}
	if q.Phase != "" {
		parts = append(parts, q.Phase)
	}
	if q.Wear != "" {
		parts = append(parts, q.Wear)
	}
	if q.MaxPrice != nil {
		parts = append(parts, "max "+listing.FormatPrice(*q.MaxPrice, "USD"))
	}
	if q.Limit > 0 && q.Limit != search.DefaultLimit {
		parts = append(parts, fmt.Sprintf("limit %d", q.Limit))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.AddCommand(recentListCmd)
	recentCmd.AddCommand(recentClearCmd)
	recentCmd.AddCommand(recentRunCmd)

	recentClearCmd.Flags().BoolVarP(&recentClearYes, "yes", "y", false, "Skip confirmation prompt")
	recentListCmd.Flags().StringVarP(&recentFilter, "filter", "f", "", "Only show searches whose name matches")
	recentListCmd.Flags().VarP(recentOutput, "output", "o", "Output format: table, json or yaml")
	recentResults.register(recentRunCmd.Flags())
}
