package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/search"
)

var (
	urlQuery = newQueryFlags()
	urlBase  string
)

// urlCmd represents the url command
var urlCmd = &cobra.Command{
	Use:   "url <skin name>",
	Short: "Print the shareable results URL for a search",
	Long: `Print the results URL for a search without running it.

Optional filters that are not given are left out of the URL, and the limit is
only written when it differs from 50. The search is not recorded.

Examples:
  skinscout url "AK-47 | Redline" --float 0.01
  skinscout url "AWP | Asiimov" --max-price 100 --base http://127.0.0.1:8080`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := urlQuery.query(args, search.DefaultLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(urlBase, "/")+search.ResultsURL(q))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlQuery.register(urlCmd.Flags())
	urlCmd.Flags().StringVar(&urlBase, "base", "", "Prefix the URL with a scheme and host (e.g. http://127.0.0.1:8080)")
}
