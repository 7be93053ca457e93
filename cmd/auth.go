package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/logging"
)

const defaultLoginTimeout = 5 * time.Minute

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Google credential",
		Long: `Manage the Google credential used by workspace-mcp.

Examples:
  workspace-mcp auth login          # Authorize in the browser and store the credential
  workspace-mcp auth status         # Show whether a credential is stored and when it expires
  workspace-mcp auth refresh        # Force an access token refresh
  workspace-mcp auth logout         # Delete the stored credential
  workspace-mcp auth generate-key   # Print a key for WORKSPACE_MCP_ENCRYPTION_KEY`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthRefreshCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthGenerateKeyCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		port    int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize workspace-mcp to access your Google account",
		Long: `Start the OAuth consent flow.

A loopback server receives the redirect from Google. Open the printed URL in
a browser, grant access, and the credential is stored in the configured
credential store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, auth, err := authManagerFromCommand(cmd)
			if err != nil {
				return err
			}
			if cfg.ClientID == "" {
				return errors.New("client id is required: set --client-id or GOOGLE_CLIENT_ID")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runAuthLogin(ctx, auth, port, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Loopback port for the OAuth redirect (0 picks a free port)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultLoginTimeout, "How long to wait for the browser consent")
	return cmd
}

func runAuthLogin(ctx context.Context, auth *google.Manager, port int, out io.Writer) error {
	cb := google.NewCallbackServer(port)
	if err := cb.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer cb.Stop() //nolint:errcheck // best effort on exit

	conf := *auth.OAuthConfig()
	conf.RedirectURL = cb.RedirectURL()

	fmt.Fprintln(out, "Open the following URL in your browser to authorize workspace-mcp:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, google.AuthCodeURL(&conf, cb.State()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Waiting for authorization...")

	code, err := cb.WaitForCode(ctx)
	if err != nil {
		return err
	}
	cred, err := google.Exchange(ctx, &conf, code)
	if err != nil {
		return err
	}
	if err := auth.Authorize(ctx, cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	if cred.RefreshToken == "" {
		fmt.Fprintln(out, "Warning: Google did not return a refresh token; the credential expires within the hour.")
	}
	fmt.Fprintln(out, "Authorization successful.")
	return nil
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored credential status",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth, err := authManagerFromCommand(cmd)
			if err != nil {
				return err
			}
			return runAuthStatus(cmd.Context(), auth, cmd.OutOrStdout())
		},
	}
}

func runAuthStatus(ctx context.Context, auth *google.Manager, out io.Writer) error {
	status, err := auth.Status(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token now",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth, err := authManagerFromCommand(cmd)
			if err != nil {
				return err
			}
			return runAuthRefresh(cmd.Context(), auth, cmd.OutOrStdout())
		},
	}
}

func runAuthRefresh(ctx context.Context, auth *google.Manager, out io.Writer) error {
	cred, err := auth.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if expiry := cred.Expiry(); !expiry.IsZero() {
		fmt.Fprintf(out, "Access token refreshed, valid until %s\n", expiry.Format(time.RFC3339))
		return nil
	}
	fmt.Fprintln(out, "Access token refreshed")
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth, err := authManagerFromCommand(cmd)
			if err != nil {
				return err
			}
			if err := auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stored Google credential deleted.")
			return nil
		},
	}
}

func newAuthGenerateKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-key",
		Short: "Print a random base64 key for the encrypted credential file",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := google.GenerateEncryptionKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}

// authManagerFromCommand resolves configuration and builds the auth manager
// for the auth subcommands. Logs go to stderr so stdout stays scriptable.
func authManagerFromCommand(cmd *cobra.Command) (Config, *google.Manager, error) {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return Config{}, nil, err
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return Config{}, nil, err
	}
	store, err := newCredentialStore(cfg, logger)
	if err != nil {
		return Config{}, nil, err
	}
	auth, err := newAuthManager(cfg, store, logger, nil)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, auth, nil
}
