package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/api"
	"github.com/pluggy/pluggy-cli/internal/cache"
	"github.com/pluggy/pluggy-cli/internal/resolve"
	"github.com/pluggy/pluggy-cli/internal/validation"
)

func newConnectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connectors",
		Aliases: []string{"connector", "co"},
		Short:   "Browse financial institution connectors",
	}

	cmd.AddCommand(newConnectorsListCmd())
	cmd.AddCommand(newConnectorsGetCmd())
	cmd.AddCommand(newConnectorsValidateCmd())

	return cmd
}

func newConnectorsListCmd() *cobra.Command {
	var sandbox bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available connectors",
		Example: "  pluggy connectors list\n  pluggy connectors list --sandbox",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			connectors, err := client.Connectors().List(cmdContext(cmd), apiKey, sandbox)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, connectors)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCOUNTRY\tMFA")
			for _, co := range connectors {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n",
					co.ID, co.Name, co.Type, co.Country, co.HasMFA)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&sandbox, "sandbox", false, "Include sandbox connectors")

	return cmd
}

func newConnectorsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|name>",
		Aliases: []string{"g"},
		Short:   "Get a connector by ID or name",
		Long:    "Get a connector by numeric ID or by (fuzzy) name match against the connector list.",
		Example: "  pluggy connectors get 201\n  pluggy connectors get itau",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			id, err := resolveConnectorID(cmd, client, apiKey, args[0])
			if err != nil {
				return err
			}

			connector, err := client.Connectors().Get(cmdContext(cmd), apiKey, id)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, connector)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintf(tw, "ID:\t%d\n", connector.ID)
			_, _ = fmt.Fprintf(tw, "Name:\t%s\n", connector.Name)
			_, _ = fmt.Fprintf(tw, "Type:\t%s\n", connector.Type)
			_, _ = fmt.Fprintf(tw, "Country:\t%s\n", connector.Country)
			_, _ = fmt.Fprintf(tw, "MFA:\t%t\n", connector.HasMFA)
			if connector.Health != nil {
				_, _ = fmt.Fprintf(tw, "Health:\t%s\n", connector.Health.Status)
			}
			products := make([]string, 0, len(connector.Products))
			for _, p := range connector.Products {
				products = append(products, string(p))
			}
			_, _ = fmt.Fprintf(tw, "Products:\t%s\n", strings.Join(products, ", "))
			_, _ = fmt.Fprintln(tw, "Credentials:")
			for _, cr := range connector.Credentials {
				typ := "text"
				if cr.Type != nil {
					typ = string(*cr.Type)
				}
				_, _ = fmt.Fprintf(tw, "  %s\t%s\t(%s)\n", cr.Name, cr.Label, typ)
			}
			return nil
		}),
	}
}

func newConnectorsValidateCmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:     "validate <id|name>",
		Short:   "Validate credential parameters against a connector",
		Long:    "Dry-run a set of credential parameters against a connector's rules without creating an item.",
		Example: `  pluggy connectors validate 201 --param user=john.doe --param password=secret`,
		Args:    cobra.ExactArgs(1),
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

			id, err := resolveConnectorID(cmd, client, apiKey, args[0])
			if err != nil {
				return err
			}

			result, err := client.Connectors().ValidateParameters(cmdContext(cmd), apiKey, id, parameters)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, result)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()

			if len(result.Errors) == 0 {
				_, _ = fmt.Fprintln(tw, "All parameters valid")
				return nil
			}
			_, _ = fmt.Fprintln(tw, "PARAMETER\tCODE\tMESSAGE")
			for _, ve := range result.Errors {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", ve.Parameter, ve.Code, ve.Message)
			}
			return fmt.Errorf("%d invalid parameter(s)", len(result.Errors))
		}),
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Credential parameter as key=value (repeatable)")

	return cmd
}

// resolveConnectorID accepts a numeric ID verbatim; anything else is matched
// against connector names. The connector list is cached briefly so repeated
// name lookups don't re-fetch it.
func resolveConnectorID(cmd *cobra.Command, client *api.Client, apiKey, arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("invalid connector ID %d: must be a positive integer", id)
		}
		return id, nil
	}

	named, ok := cachedConnectorNames(client.BaseURL)
	if !ok {
		connectors, err := client.Connectors().List(cmdContext(cmd), apiKey, false)
		if err != nil {
			return 0, fmt.Errorf("failed to list connectors for name lookup: %w", err)
		}
		named = make([]resolve.Named, 0, len(connectors))
		for _, co := range connectors {
			named = append(named, resolve.Named{ID: co.ID, Name: co.Name})
		}
		putConnectorNames(client.BaseURL, named)
	}

	match, err := resolve.FuzzyMatch(arg, named)
	if err != nil {
		return 0, err
	}
	printIfNotQuiet(cmd, "Matched connector %q (id %d)\n", match.Name, match.ID)
	return match.ID, nil
}

func connectorNameStore(baseURL string) *cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil
	}
	return cache.NewStore(dir, "connectors", baseURL)
}

func cachedConnectorNames(baseURL string) ([]resolve.Named, bool) {
	store := connectorNameStore(baseURL)
	if store == nil {
		return nil, false
	}
	var named []resolve.Named
	if !store.Get(&named) || len(named) == 0 {
		return nil, false
	}
	return named, true
}

func putConnectorNames(baseURL string, named []resolve.Named) {
	if store := connectorNameStore(baseURL); store != nil {
		store.Put(named)
	}
}
