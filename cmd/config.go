package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/config"
	"thoreinstein.com/skinscout/pkg/listing"
)

var (
	configForce  bool
	configOutput = newEnumFlag(string(listing.FormatYAML), "json", "yaml")
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the skinscout configuration",
	Long: `Manage the skinscout configuration.

Settings are read from ~/.config/skinscout/config.toml, then .skinscout.toml
in the git root and the current directory, then SKINSCOUT_* environment
variables (for example SKINSCOUT_API_BASE_URL).`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with every setting at its default.

Examples:
  skinscout config init
  skinscout config init --force
  skinscout --config ./skinscout.toml config init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultFile()
		}
		if err := config.WriteDefault(path, configForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		shown := *cfg
		if shown.API.Key != "" {
			shown.API.Key = "********"
		}
		if listing.Format(configOutput.value) == listing.FormatJSON {
			return listing.WriteJSON(cmd.OutOrStdout(), shown)
		}
		return listing.WriteYAML(cmd.OutOrStdout(), shown)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")
	configShowCmd.Flags().VarP(configOutput, "output", "o", "Output format: json or yaml")
}
