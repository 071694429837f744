package cmd

import (
	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/search"
)

var openResults = newResultOptions()

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open <results-url>",
	Short: "Run the search described by a results URL",
	Long: `Decode a shareable results URL and run the search it describes.

Accepts a full URL, a path such as /results?skin=..., or a bare query string.
Malformed numbers are ignored and a missing limit falls back to 50.

Examples:
  skinscout open "http://127.0.0.1:8080/results?skin=AK-47+%7C+Redline&float=0.01"
  skinscout open "skin=Karambit+%7C+Doppler&phase=Phase+2" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := search.DecodeString(args[0])
		if !q.IsExecutable() {
			return errSkinRequired
		}
		return withApp(cmd, func(a *app) error {
			return runQuery(cmd, a, q, openResults)
		})
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	openResults.register(openCmd.Flags())
}
