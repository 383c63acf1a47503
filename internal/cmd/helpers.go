package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/api"
	"github.com/pluggy/pluggy-cli/internal/config"
	"github.com/pluggy/pluggy-cli/internal/iocontext"
	"github.com/pluggy/pluggy-cli/internal/outfmt"
)

// getClient creates an API client from stored credentials
func getClient() (*api.Client, error) {
	account, err := config.LoadAccount()
	if err != nil {
		if errors.Is(err, config.ErrNotConfigured) {
			return nil, fmt.Errorf("not authenticated: run 'pluggy auth login' first")
		}
		return nil, err
	}

	client := mustClient(account)
	client.UserAgent = "pluggy-cli/" + version
	return client, nil
}

// getAuthedClient creates a client and exchanges the stored credentials
// for an API key. Every authenticated command starts here; the key lives
// for the duration of one command invocation.
func getAuthedClient(cmd *cobra.Command) (*api.Client, string, error) {
	client, err := getClient()
	if err != nil {
		return nil, "", err
	}
	apiKey, err := client.Authenticate(cmdContext(cmd))
	if err != nil {
		return nil, "", fmt.Errorf("authentication failed: %w", err)
	}
	return client, apiKey, nil
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	ioStreams := iocontext.GetIO(cmd.Context())
	return newTabWriter(ioStreams.Out)
}

// printJSON outputs data as JSON with optional query filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	query := outfmt.GetQuery(cmd.Context())
	compact := outfmt.IsCompact(cmd.Context())
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query, compact)
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context()) || outfmt.IsJSONL(cmd.Context())
}

// printIfNotQuiet prints to stdout only if not in quiet mode
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if !flags.Quiet {
		ioStreams := iocontext.GetIO(cmd.Context())
		_, _ = fmt.Fprintf(ioStreams.Out, format, args...)
	}
}

func printAction(cmd *cobra.Command, action, resource string, id any) {
	if flags.Quiet || isJSON(cmd) {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id != nil {
		if value, ok := id.(string); !ok || value != "" {
			message = fmt.Sprintf("%s %v", message, id)
		}
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func derefString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

type confirmOptions struct {
	Prompt        string
	CancelMessage string
}

// confirmAction asks for a y/N confirmation on stdin. --yes forces true;
// --no-input without --yes refuses destructive actions outright.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes {
		return true, nil
	}
	if flags.NoInput {
		return false, fmt.Errorf("confirmation required: re-run with --yes")
	}

	out := cmd.OutOrStdout()
	if opts.Prompt != "" {
		_, _ = fmt.Fprint(out, opts.Prompt)
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	reader := bufio.NewReader(ioStreams.In)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(out, opts.CancelMessage)
		}
		return false, nil
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(out, opts.CancelMessage)
		}
		return false, nil
	}
	return true, nil
}

var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return e.err
}

func (e *handledError) Is(target error) bool {
	return target == errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with error reporting to stderr
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
