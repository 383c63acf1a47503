package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pluggy-cli version %s\n", version)

			// Best-effort release check; dev builds and failures stay silent.
			if n := update.Check(cmd.Context(), version); n != nil {
				errOut := cmd.ErrOrStderr()
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", n.Current, n.Latest)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", n.URL)
			}
		},
	}
}
