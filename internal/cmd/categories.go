package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Browse transaction categories",
	}

	cmd.AddCommand(newCategoriesListCmd())
	cmd.AddCommand(newCategoriesGetCmd())

	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	var parentsOnly bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transaction categories",
		Example: "  pluggy categories list\n  pluggy categories list --parents-only",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			categories, err := client.Categories().List(cmdContext(cmd), apiKey)
			if err != nil {
				return err
			}

			if parentsOnly {
				roots := categories[:0]
				for _, c := range categories {
					if c.ParentID == nil {
						roots = append(roots, c)
					}
				}
				categories = roots
			}

			if isJSON(cmd) {
				return printJSON(cmd, categories)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tDESCRIPTION\tPARENT")
			for _, c := range categories {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Description, derefString(c.ParentDescription))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&parentsOnly, "parents-only", false, "Show only top-level categories")

	return cmd
}

func newCategoriesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"g"},
		Short:   "Get a category by ID",
		Example: "  pluggy categories get 01000000",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			category, err := client.Categories().Get(cmdContext(cmd), apiKey, args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, category)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintf(tw, "ID:\t%s\n", category.ID)
			_, _ = fmt.Fprintf(tw, "Description:\t%s\n", category.Description)
			_, _ = fmt.Fprintf(tw, "Parent:\t%s\n", derefString(category.ParentDescription))
			return nil
		}),
	}
}
