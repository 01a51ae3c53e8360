package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/config"
)

const repository = "s0up4200/railctl"

var (
	appVersion   = "dev"
	appBuildTime = "unknown"

	checkOnly bool
)

// SetVersion records the build information injected through ldflags
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

// standaloneLogger lets commands that need no TestRail config still log
func standaloneLogger(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: standaloneLogger,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "railctl %s (built %s)\n", appVersion, appBuildTime)
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update railctl to the latest release",
	Long: `Check GitHub for a newer railctl release and replace the running binary
with it. Use --check to only report whether an update is available.`,
	PersistentPreRunE: standaloneLogger,
	RunE:              runUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check for a newer version")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", appVersion)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repository)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "✓ railctl %s is up to date\n", current)
		return nil
	}

	fmt.Fprintf(out, "New version available: %s (current %s)\n", latest.Version(), current)
	if checkOnly {
		if latest.URL != "" {
			fmt.Fprintf(out, "Release notes: %s\n", latest.URL)
		}
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().
		Str("version", latest.Version()).
		Str("asset", latest.AssetName).
		Msg("Downloading update")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated to %s\n", latest.Version())
	return nil
}
