package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local response cache",
		Long:  "Manage the local file cache used for connector name resolution. Set PLUGGY_NO_CACHE=1 to bypass it entirely.",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached data",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("failed to locate cache directory: %w", err)
			}
			cache.ClearAll(dir)
			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"cleared": dir})
			}
			printIfNotQuiet(cmd, "Cache cleared (%s)\n", dir)
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("failed to locate cache directory: %w", err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"path": dir})
			}
			printIfNotQuiet(cmd, "%s\n", dir)
			return nil
		}),
	}
}
