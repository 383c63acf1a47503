package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pluggy/pluggy-cli/internal/api"
	"github.com/pluggy/pluggy-cli/internal/config"
	"github.com/pluggy/pluggy-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage authentication credentials",
		Long:    "Configure and manage Pluggy API client credentials stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthConnectTokenCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		baseURL      string
		nonExpiring  bool
		envFile      string
		noVerify     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save API credentials",
		Long: strings.TrimSpace(`
Save Pluggy client credentials securely to your OS keychain.

You'll need the CLIENT_ID and CLIENT_SECRET from the Pluggy dashboard
(https://dashboard.pluggy.ai). Credentials are verified against the API
before they are stored; pass --no-verify to skip the check.
`),
		Example: strings.TrimSpace(`
  # Login with flags
  pluggy auth login --client-id YOUR_ID --client-secret YOUR_SECRET

  # Load credentials from a .env file
  pluggy auth login --env-file .env

  # Request non-expiring API keys (dashboard must allow it)
  pluggy auth login --client-id YOUR_ID --client-secret YOUR_SECRET --non-expiring
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("failed to read --env-file %q: %w", envFile, err)
				}
				if clientID == "" {
					clientID = strings.TrimSpace(envVars["PLUGGY_CLIENT_ID"])
				}
				if clientSecret == "" {
					clientSecret = strings.TrimSpace(envVars["PLUGGY_CLIENT_SECRET"])
				}
				if baseURL == "" {
					baseURL = strings.TrimSpace(envVars["PLUGGY_BASE_URL"])
				}
			}

			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("--client-id and --client-secret are required (or provide --env-file)")
			}
			if baseURL != "" {
				if err := validation.ValidateBaseURL(baseURL); err != nil {
					return fmt.Errorf("invalid --base-url: %w", err)
				}
			}

			account := config.Account{
				BaseURL:      baseURL,
				ClientID:     clientID,
				ClientSecret: clientSecret,
				NonExpiring:  nonExpiring,
			}

			if !noVerify {
				var client *api.Client
				if baseURL != "" {
					client = api.NewWithBaseURL(baseURL, clientID, clientSecret)
				} else {
					client = api.New(clientID, clientSecret)
				}
				client.NonExpiring = nonExpiring
				if _, err := client.Authenticate(cmdContext(cmd)); err != nil {
					return fmt.Errorf("credential verification failed: %w", err)
				}
			}

			if err := config.SaveAccount(account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"status":    "authenticated",
					"client_id": clientID,
				})
			}
			printIfNotQuiet(cmd, "Credentials saved for client %s\n", clientID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Pluggy CLIENT_ID (required)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Pluggy CLIENT_SECRET (required)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (default "+api.DefaultBaseURL+")")
	cmd.Flags().BoolVar(&nonExpiring, "non-expiring", false, "Request non-expiring API keys")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load PLUGGY_CLIENT_ID/PLUGGY_CLIENT_SECRET from a .env file")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip credential verification against the API")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			account, err := config.LoadAccount()
			if err != nil {
				return fmt.Errorf("not authenticated: run 'pluggy auth login' first")
			}

			baseURL := account.BaseURL
			if baseURL == "" {
				baseURL = api.DefaultBaseURL
			}

			// Round-trip against /auth to prove the credentials still work.
			_, authErr := mustClient(account).Authenticate(cmdContext(cmd))
			ok := authErr == nil

			if isJSON(cmd) {
				payload := map[string]any{
					"client_id":    account.ClientID,
					"base_url":     baseURL,
					"non_expiring": account.NonExpiring,
					"valid":        ok,
				}
				if authErr != nil {
					payload["error"] = authErr.Error()
				}
				return printJSON(cmd, payload)
			}

			tw := newTabWriterFromCmd(cmd)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintf(tw, "Client ID:\t%s\n", account.ClientID)
			_, _ = fmt.Fprintf(tw, "Base URL:\t%s\n", baseURL)
			_, _ = fmt.Fprintf(tw, "Non-expiring:\t%t\n", account.NonExpiring)
			if ok {
				_, _ = fmt.Fprintf(tw, "Status:\tvalid\n")
			} else {
				_, _ = fmt.Fprintf(tw, "Status:\tinvalid (%v)\n", authErr)
			}
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteAccount(); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"status": "logged out"})
			}
			printIfNotQuiet(cmd, "Credentials removed\n")
			return nil
		}),
	}
}

func newAuthConnectTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "connect-token",
		Aliases: []string{"ct"},
		Short:   "Create a Pluggy Connect widget token",
		Long:    "Exchange the stored credentials for a short-lived access token for the Pluggy Connect widget.",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, apiKey, err := getAuthedClient(cmd)
			if err != nil {
				return err
			}

			token, err := client.CreateConnectToken(cmdContext(cmd), apiKey)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"accessToken": token})
			}
			printIfNotQuiet(cmd, "%s\n", token)
			return nil
		}),
	}
}

func mustClient(account config.Account) *api.Client {
	var client *api.Client
	if account.BaseURL != "" {
		client = api.NewWithBaseURL(account.BaseURL, account.ClientID, account.ClientSecret)
	} else {
		client = api.New(account.ClientID, account.ClientSecret)
	}
	client.NonExpiring = account.NonExpiring
	client.HTTP.Timeout = flags.Timeout
	return client
}
