package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/api"
	"github.com/pluggy/pluggy-cli/internal/validation"
)

func newWebhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "wh"},
		Short:   "Manage webhooks",
		Long:    "Manage webhook subscriptions for item and connector event notifications.",
	}

	cmd.AddCommand(newWebhooksListCmd())
	cmd.AddCommand(newWebhooksGetCmd())
	cmd.AddCommand(newWebhooksCreateCmd())
	cmd.AddCommand(newWebhooksUpdateCmd())
	cmd.AddCommand(newWebhooksDeleteCmd())

	return cmd
}

func webhookEventsHelp() string {
	events := make([]string, 0, len(api.WebhookEvents))
	for _, e := range api.WebhookEvents {
		events = append(events, "  - "+string(e))
	}
	return "Available events:\n" + strings.Join(events, "\n")
}

func newWebhooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all webhooks",
		Example: "  pluggy webhooks list",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			webhooks, err := client.Webhooks().List(cmdContext(cmd), apiKey)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, webhooks)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tEVENT\tURL\tDISABLED")
			for _, wh := range webhooks {
				disabled := "-"
				if wh.DisabledAt != nil {
					disabled = formatTime(wh.DisabledAt)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", wh.ID, wh.Event, wh.URL, disabled)
			}
			return nil
		}),
	}
}

func newWebhooksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"g"},
		Short:   "Get a webhook by ID",
		Example: "  pluggy webhooks get 39e1b136-69e6-4091-82cd-b5e26defc7d9",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Get(cmdContext(cmd), apiKey, args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, webhook)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			printWebhook(tw, webhook)
			return nil
		}),
	}
}

func printWebhook(tw io.Writer, wh *api.Webhook) {
	_, _ = fmt.Fprintf(tw, "ID:\t%s\n", wh.ID)
	_, _ = fmt.Fprintf(tw, "Event:\t%s\n", wh.Event)
	_, _ = fmt.Fprintf(tw, "URL:\t%s\n", wh.URL)
	_, _ = fmt.Fprintf(tw, "Created:\t%s\n", wh.CreatedAt.Local().Format("2006-01-02 15:04"))
	if wh.DisabledAt != nil {
		_, _ = fmt.Fprintf(tw, "Disabled:\t%s\n", formatTime(wh.DisabledAt))
	}
}

func newWebhooksCreateCmd() *cobra.Command {
	var (
		url     string
		event   string
		headers []string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"mk"},
		Short:   "Create a webhook",
		Long:    "Create a webhook subscription.\n\n" + webhookEventsHelp(),
		Example: `  pluggy webhooks create --url https://example.com/hook --event item/updated
  pluggy webhooks create --url https://example.com/hook --event all --header X-Secret=abc`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				return fmt.Errorf("--url is required")
			}
			if event == "" {
				return fmt.Errorf("--event is required")
			}
			if err := validation.ValidateWebhookURL(url); err != nil {
				return fmt.Errorf("invalid webhook URL: %w", err)
			}
			parsedEvent, err := api.ParseWebhookEvent(event)
			if err != nil {
				return err
			}
			headerMap, err := validation.ParseParameters(headers)
			if err != nil {
				return fmt.Errorf("invalid --header value: %w", err)
			}

			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Create(cmdContext(cmd), apiKey, url, parsedEvent, headerMap)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, webhook)
			}

			printAction(cmd, "Created", "webhook", webhook.ID)
			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			printWebhook(tw, webhook)
			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "Webhook URL, https only (required)")
	cmd.Flags().StringVar(&event, "event", "", "Event to subscribe to, e.g. item/updated or all (required)")
	cmd.Flags().StringArrayVar(&headers, "header", nil, "Extra notification header as key=value (repeatable)")

	return cmd
}

func newWebhooksUpdateCmd() *cobra.Command {
	var (
		url     string
		event   string
		headers []string
		enable  bool
		disable bool
	)

	cmd := &cobra.Command{
		Use:     "update <id>",
		Aliases: []string{"up"},
		Short:   "Update a webhook",
		Long:    "Update a webhook's URL, event, headers, or enabled state. Unset flags are left untouched.\n\n" + webhookEventsHelp(),
		Example: `  pluggy webhooks update 39e1b136-69e6-4091-82cd-b5e26defc7d9 --url https://example.com/new
  pluggy webhooks update 39e1b136-69e6-4091-82cd-b5e26defc7d9 --event item/error --disable`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if url == "" && event == "" && len(headers) == 0 && !cmd.Flags().Changed("enable") && !cmd.Flags().Changed("disable") {
				return fmt.Errorf("at least one of --url, --event, --header, --enable, or --disable must be provided")
			}
			if enable && disable {
				return fmt.Errorf("--enable and --disable conflict; set only one of them")
			}

			var req api.UpdateWebhookRequest
			if url != "" {
				if err := validation.ValidateWebhookURL(url); err != nil {
					return fmt.Errorf("invalid webhook URL: %w", err)
				}
				req.URL = &url
			}
			if event != "" {
				parsedEvent, err := api.ParseWebhookEvent(event)
				if err != nil {
					return err
				}
				req.Event = &parsedEvent
			}
			if len(headers) > 0 {
				headerMap, err := validation.ParseParameters(headers)
				if err != nil {
					return fmt.Errorf("invalid --header value: %w", err)
				}
				req.Headers = headerMap
			}
			if cmd.Flags().Changed("enable") || cmd.Flags().Changed("disable") {
				enabled := enable && !disable
				req.Enabled = &enabled
			}

			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Update(cmdContext(cmd), apiKey, args[0], req)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, webhook)
			}

			printAction(cmd, "Updated", "webhook", webhook.ID)
			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			printWebhook(tw, webhook)
			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "New webhook URL, https only")
	cmd.Flags().StringVar(&event, "event", "", "New event subscription")
	cmd.Flags().StringArrayVar(&headers, "header", nil, "Replacement notification header as key=value (repeatable)")
	cmd.Flags().BoolVar(&enable, "enable", false, "Re-enable the webhook")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable the webhook")

	return cmd
}

func newWebhooksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a webhook",
		Example: "  pluggy webhooks delete 39e1b136-69e6-4091-82cd-b5e26defc7d9 --yes",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete webhook %s? [y/N] ", args[0]),
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

			if err := client.Webhooks().Delete(cmdContext(cmd), apiKey, args[0]); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			printAction(cmd, "Deleted", "webhook", args[0])
			return nil
		}),
	}
}
