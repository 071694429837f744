package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/credentials"
	"thoreinstein.com/skinscout/pkg/ui"
)

// newPrompter returns the prompter for interactive input. Tests replace it.
var newPrompter = func() *ui.Prompter {
	return ui.NewPrompter()
}

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the aggregation API key",
	Long: `Store, remove and inspect the API key sent to the aggregation API.

The key is looked up in this order: the SKINSCOUT_API_KEY environment
variable, api.key in the config file, then the OS keychain (or a 0600 key
file when no keychain is available).`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API key in the keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := newPrompter().Secret("API key:")
		if err != nil {
			return err
		}
		if key == "" {
			return errors.New("no API key entered")
		}
		if err := newKeyStore().Set(key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newKeyStore().Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, source, err := credentials.Resolve(cfg.API.Key, newKeyStore())
		if err != nil {
			return err
		}
		if source == credentials.SourceNone {
			fmt.Fprintln(cmd.OutOrStdout(), "No API key configured.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key set (from %s).\n", source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}
