package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/config"
	"github.com/s0up4200/railctl/filter"
	"github.com/s0up4200/railctl/testrail"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *testrail.Client
	filters *filter.Manager

	// Global flags
	jsonOutput  bool
	concurrency int
	assumeYes   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "railctl",
	Short: "A command line client for the TestRail API",
	Long: `railctl talks to a TestRail instance through its v2 API.

Every resource (projects, suites, sections, cases, runs, tests, results,
plans, milestones, shared steps, users and attachments) has its own command
group. Responses are printed as JSON; list commands can be narrowed with
--filter expressions or presets from the config file.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print compact JSON regardless of output.format")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", testrail.DefaultFetchConcurrency, "parallel requests for commands taking several IDs")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation before deleting")

	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and creates the TestRail client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = testrail.New(cfg.ClientConfig(), logger, testrail.WithUserAgent("railctl/"+appVersion))
	if err != nil {
		return fmt.Errorf("failed to create TestRail client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterPresets(cfg.Output.FilterPresets); err != nil {
		return fmt.Errorf("failed to load filter presets: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger. Color is dropped when stderr
// is not a terminal.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	isTerminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TestRail",
	Long:  `Test the connection to your TestRail instance and show the authenticated user.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to TestRail at %s...\n", cfg.TestRail.URL)

	user, err := client.TestConnection(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "\nAuthenticated as:\n")
	fmt.Fprintf(out, "- Name: %s\n", user.Name)
	fmt.Fprintf(out, "- Email: %s\n", user.Email)
	if user.Role != "" {
		fmt.Fprintf(out, "- Role: %s\n", user.Role)
	}
	fmt.Fprintf(out, "- Active: %s\n", boolToStatus(user.IsActive))

	if presets := filters.Presets(); len(presets) > 0 {
		fmt.Fprintf(out, "\nFilter presets:\n")
		for _, name := range presets {
			fmt.Fprintf(out, "  • %s\n", name)
		}
	}

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
