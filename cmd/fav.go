package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// favCmd represents the fav command
var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorite skins",
	Long: `Mark skins as favorites. Favorites are stored next to the recent-search
history and matched by exact name.`,
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <skin name>",
	Short: "Add or remove a favorite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := skinName(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			if a.favorites.Toggle(cmd.Context(), name) {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to favorites.\n", name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from favorites.\n", name)
			}
			return nil
		})
	},
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite skins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			favs := a.favorites.List(cmd.Context())
			if len(favs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites.")
				return nil
			}
			for _, name := range favs {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var favCheckCmd = &cobra.Command{
	Use:   "check <skin name>",
	Short: "Report whether a skin is a favorite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := skinName(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.favorites.IsFavorite(cmd.Context(), name))
			return nil
		})
	},
}

// skinName joins positional arguments into a skin name.
func skinName(args []string) (string, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return "", errSkinRequired
	}
	return name, nil
}

func init() {
	rootCmd.AddCommand(favCmd)
	favCmd.AddCommand(favToggleCmd)
	favCmd.AddCommand(favListCmd)
	favCmd.AddCommand(favCheckCmd)
}
