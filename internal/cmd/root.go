package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/api"
	"github.com/pluggy/pluggy-cli/internal/debug"
	"github.com/pluggy/pluggy-cli/internal/iocontext"
	"github.com/pluggy/pluggy-cli/internal/outfmt"
	"github.com/pluggy/pluggy-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	JSON         bool
	Query        string
	JQ           string
	Compact      bool
	Debug        bool
	Quiet        bool
	Silent       bool
	NoInput      bool
	Yes          bool
	AllowPrivate bool
	Timeout      time.Duration
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = rootFlags{
	Output:  defaultOutput(),
	Timeout: api.DefaultTimeout,
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("PLUGGY_OUTPUT"))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func parseBoolEnv(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// loadPluggyEnv loads environment variables from ~/.pluggy/.env if the file
// exists. Variables already set in the environment are not overwritten, so
// explicit exports always take precedence.
func loadPluggyEnv() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	path := filepath.Join(home, ".pluggy", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Auto-load credentials from ~/.pluggy/.env when present. This runs
	// before the flag-default reset so that PLUGGY_OUTPUT and other
	// env-driven defaults pick up the values.
	loadPluggyEnv()

	// Reset flags to defaults for each execution. This is critical for test
	// isolation — see the invariant comment on the flags declaration above.
	flags = rootFlags{
		Output:       defaultOutput(),
		AllowPrivate: parseBoolEnv("PLUGGY_ALLOW_PRIVATE"),
		Timeout:      api.DefaultTimeout,
	}

	root := &cobra.Command{
		Use:           "pluggy",
		Short:         "CLI for the Pluggy financial data aggregation API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			flags.Output = normalizeOutputFormat(flags.Output)

			// -y/--yes implies non-interactive mode and satisfies
			// confirmation prompts.
			if flags.Yes {
				flags.NoInput = true
			}

			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			if getJQQuery() != "" && flags.Output != "json" && flags.Output != "jsonl" {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("--jq/--query require --output json or jsonl/ndjson (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			// Set up IO streams (allow silent/quiet to suppress stderr)
			ioStreams := iocontext.DefaultIO()
			if flags.Silent || flags.Quiet {
				ioStreams.ErrOut = io.Discard
			}
			if flags.Quiet && mode == outfmt.Text {
				ioStreams.Out = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			allowPrivate := flags.AllowPrivate || parseBoolEnv("PLUGGY_ALLOW_PRIVATE")
			validation.SetAllowPrivate(allowPrivate)
			if allowPrivate && !flags.Silent && !flags.Quiet {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: allowing private/localhost URLs (use only with trusted targets).")
			}

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)

			if query := getJQQuery(); query != "" {
				ctx = outfmt.WithQuery(ctx, query)
			}

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env PLUGGY_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Alias for --query")
	root.PersistentFlags().BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	root.PersistentFlags().BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	root.PersistentFlags().BoolVar(&flags.NoInput, "no-input", false, "Disable interactive prompts")
	root.PersistentFlags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	root.PersistentFlags().BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost URLs (unsafe)")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newConnectorsCmd())
	root.AddCommand(newItemsCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newWebhooksCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), err)
		}
		return err
	}
	return nil
}

func getJQQuery() string {
	// --jq wins over --query when both are set.
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}
