package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pluggy/pluggy-cli/internal/api"
	"github.com/pluggy/pluggy-cli/internal/validation"
)

// itemFetchConcurrency bounds parallel item lookups in multi-ID get.
const itemFetchConcurrency = 5

func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item", "it"},
		Short:   "Manage linked account items",
		Long:    "Manage items: one end-user's linked account under a connector.",
	}

	cmd.AddCommand(newItemsGetCmd())
	cmd.AddCommand(newItemsCreateCmd())
	cmd.AddCommand(newItemsUpdateCmd())
	cmd.AddCommand(newItemsMFACmd())
	cmd.AddCommand(newItemsDeleteCmd())

	return cmd
}

func newItemsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id> [id...]",
		Aliases: []string{"g"},
		Short:   "Get one or more items by ID",
		Example: "  pluggy items get 0f900e92-9205-4e55-b944-80b88d0dfc2e",
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			items, err := fetchItems(cmd, client, apiKey, args)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				if len(items) == 1 {
					return printJSON(cmd, items[0])
				}
				return printJSON(cmd, items)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			for i, item := range items {
				if i > 0 {
					_, _ = fmt.Fprintln(tw)
				}
				printItem(tw, item)
			}
			return nil
		}),
	}
}

func fetchItems(cmd *cobra.Command, client *api.Client, apiKey string, ids []string) ([]*api.Item, error) {
	if len(ids) == 1 {
		item, err := client.Items().Get(cmdContext(cmd), apiKey, ids[0])
		if err != nil {
			return nil, err
		}
		return []*api.Item{item}, nil
	}

	// Each goroutine writes its own slot, so no locking is needed.
	items := make([]*api.Item, len(ids))

	g, ctx := errgroup.WithContext(cmdContext(cmd))
	g.SetLimit(itemFetchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			item, err := client.Items().Get(ctx, apiKey, id)
			if err != nil {
				return fmt.Errorf("item %s: %w", id, err)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func printItem(tw io.Writer, item *api.Item) {
	_, _ = fmt.Fprintf(tw, "ID:\t%s\n", item.ID)
	_, _ = fmt.Fprintf(tw, "Connector:\t%s (id %d)\n", item.Connector.Name, item.Connector.ID)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", item.Status)
	_, _ = fmt.Fprintf(tw, "Execution:\t%s\n", item.ExecutionStatus)
	_, _ = fmt.Fprintf(tw, "Last updated:\t%s\n", formatTime(item.LastUpdatedAt))
	if item.Error != nil {
		_, _ = fmt.Fprintf(tw, "Error:\t%s: %s\n", item.Error.Code, item.Error.Message)
	}
	if item.UserAction != nil {
		_, _ = fmt.Fprintf(tw, "Action needed:\t%s\n", item.UserAction.Instructions)
	}
}

func newItemsCreateCmd() *cobra.Command {
	var (
		connector    string
		params       []string
		webhookURL   string
		clientUserID string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create an item (link an account)",
		Long: strings.TrimSpace(`
Create an item by submitting credentials to a connector. The server starts
the sync asynchronously; poll 'pluggy items get' (or register a webhook) to
follow the execution status.`),
		Example: `  pluggy items create --connector 201 --param user=john.doe --param password=secret
  pluggy items create --connector "pluggy bank" --param user=user-ok --param password=password-ok`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if connector == "" {
				return fmt.Errorf("--connector is required")
			}
			parameters, err := validation.ParseParameters(params)
			if err != nil {
				return err
			}
			if len(parameters) == 0 {
				return fmt.Errorf("at least one --param key=value is required")
			}
			if webhookURL != "" {
				if err := validation.ValidateWebhookURL(webhookURL); err != nil {
					return fmt.Errorf("invalid --webhook-url: %w", err)
				}
			}

			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			connectorID, err := resolveConnectorID(cmd, client, apiKey, connector)
			if err != nil {
				return err
			}

			req := api.CreateItemRequest{
				ConnectorID: connectorID,
				Parameters:  parameters,
			}
			if webhookURL != "" {
				req.WebhookURL = &webhookURL
			}
			if clientUserID != "" {
				req.ClientUserID = &clientUserID
			}

			item, err := client.Items().Create(cmdContext(cmd), apiKey, req)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, item)
			}

			printAction(cmd, "Created", "item", item.ID)
			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			printItem(tw, item)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&connector, "connector", "c", "", "Connector ID or name (required)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Credential parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL notified of this item's events")
	cmd.Flags().StringVar(&clientUserID, "client-user-id", "", "Your own user identifier to tag the item with")

	return cmd
}

func newItemsUpdateCmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:     "update <id>",
		Aliases: []string{"up"},
		Short:   "Update an item's credentials and trigger a sync",
		Example: `  pluggy items update 0f900e92-9205-4e55-b944-80b88d0dfc2e --param password=new-secret`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			parameters, err := validation.ParseParameters(params)
			if err != nil {
				return err
			}

			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			item, err := client.Items().Update(cmdContext(cmd), apiKey, args[0], parameters)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, item)
			}

			printAction(cmd, "Updated", "item", item.ID)
			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			printItem(tw, item)
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Credential parameter as key=value (repeatable)")

	return cmd
}

func newItemsMFACmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "mfa <id>",
		Short: "Answer a pending multi-factor challenge",
		Long:  "Send the requested MFA parameter for an item that is waiting on user input.",
		Example: `  pluggy items mfa 0f900e92-9205-4e55-b944-80b88d0dfc2e --param token=123456
  pluggy items mfa 0f900e92-9205-4e55-b944-80b88d0dfc2e --param sms=987654`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			parameters, err := validation.ParseParameters(params)
			if err != nil {
				return err
			}
			if len(parameters) == 0 {
				return fmt.Errorf("at least one --param key=value is required")
			}

			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			item, err := client.Items().UpdateMFA(cmdContext(cmd), apiKey, args[0], parameters)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, item)
			}

			printAction(cmd, "Answered MFA for", "item", item.ID)
			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			printItem(tw, item)
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "MFA parameter as key=value (repeatable)")

	return cmd
}

func newItemsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item and its stored credentials",
		Example: "  pluggy items delete 0f900e92-9205-4e55-b944-80b88d0dfc2e --yes",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete item %s and its stored credentials? [y/N] ", args[0]),
				CancelMessage: "Cancelled",
			})
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Items().Delete(cmdContext(cmd), apiKey, args[0]); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			printAction(cmd, "Deleted", "item", args[0])
			return nil
		}),
	}
}
