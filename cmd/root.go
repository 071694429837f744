package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thoreinstein.com/skinscout/pkg/bootstrap"
	"thoreinstein.com/skinscout/pkg/config"
	skerrors "thoreinstein.com/skinscout/pkg/errors"
	"thoreinstein.com/skinscout/pkg/ui"
)

var cfgFile string
var verbose bool
var appConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skinscout",
	Short: "skinscout - CS2 skin price search",
	Long: `skinscout searches CS2 skin prices across marketplaces through a price
aggregation API.

Searches are remembered locally so they can be repeated, shared as results
URLs, or served from a small local web front end.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pre-parse global flags so the logger and config honor them before
	// Cobra runs.
	cfgFile, verbose = bootstrap.PreParseGlobalFlags(os.Args)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ui.ErrCancelled) {
			fmt.Fprintln(os.Stderr, skerrors.FormatUserError(err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/skinscout/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, verbose, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

// loadConfig returns the loaded configuration, loading it on first use.
func loadConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	if err := initConfig(); err != nil {
		return nil, err
	}
	return appConfig, nil
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	bootstrap.Reset()
	viper.Reset()
}
