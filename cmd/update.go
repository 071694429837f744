package cmd

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/ui"
)

const (
	repoOwner = "thoreinstein"
	repoName  = "skinscout"
)

var (
	updateCheck bool
	updateForce bool
	updatePre   bool
	updateYes   bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update skinscout to the latest release",
	Long: `Update skinscout to the latest release published on GitHub.

The latest release is looked up on GitHub releases, its checksums are verified,
and the running binary is replaced in place. Development builds always update.

Examples:
  skinscout update            # update after confirmation
  skinscout update --check    # only report whether an update exists
  skinscout update --yes      # update without asking
  skinscout update --force    # reinstall even if already up to date
  skinscout update --pre      # include pre-releases`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdateCommand(cmd.Context())
	},
}

func runUpdateCommand(ctx context.Context) error {
	current := GetVersion()
	if !isDevVersion(current) {
		if _, err := semver.NewVersion(current); err != nil {
			return errors.Wrapf(err, "current version %q is not a semantic version", current)
		}
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Prerelease: updatePre,
		Validator:  &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create updater")
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return errors.Wrap(err, "failed to detect latest release")
	}
	if !found {
		fmt.Println("No release found for this platform.")
		return nil
	}

	latestLessEqual := !isDevVersion(current) && latest.LessOrEqual(current)
	if shouldSkipUpdate(current, latestLessEqual, updateForce) {
		fmt.Printf("skinscout %s is up to date.\n", current)
		return nil
	}

	if updateCheck {
		fmt.Printf("Update available: %s -> %s\n", current, latest.Version())
		return nil
	}

	if !updateYes && !confirmUpdate(newPrompter(), current, latest.Version()) {
		fmt.Println("Update cancelled.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return errors.Wrap(err, "failed to locate executable")
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return errors.Wrap(err, "failed to update binary")
	}

	fmt.Printf("Updated skinscout to %s.\n", latest.Version())
	return nil
}

func isDevVersion(v string) bool {
	return v == "dev"
}

// shouldSkipUpdate reports whether the installed version is kept.
// Development builds always update.
func shouldSkipUpdate(current string, latestLessEqual, force bool) bool {
	return !isDevVersion(current) && latestLessEqual && !force
}

// confirmUpdate asks whether to update. Anything but a yes, including a
// closed input, declines.
func confirmUpdate(p *ui.Prompter, currentVersion, newVersion string) bool {
	ok, err := p.Confirm(fmt.Sprintf("Update skinscout from %s to %s?", currentVersion, newVersion), false)
	return err == nil && ok
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVarP(&updateCheck, "check", "c", false, "Check for updates without installing")
	updateCmd.Flags().BoolVarP(&updateForce, "force", "f", false, "Force update even if already on the latest version")
	updateCmd.Flags().BoolVarP(&updatePre, "pre", "p", false, "Include pre-release versions")
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Skip confirmation prompt")
}
