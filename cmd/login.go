package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// The interactive sign-in flow lives outside this tool: login stores a
// token blob obtained elsewhere, logout discards it.
func newLoginCmd(app *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for the upstream calendar APIs",
		Long:  "Store an externally obtained OAuth token. Pass it via --token or pipe the token blob on stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			blob := strings.TrimSpace(token)
			if blob == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				blob = strings.TrimSpace(string(raw))
			}
			if blob == "" {
				return errors.New("no token provided: use --token or pipe it on stdin")
			}

			if err := app.secretStore.Put(cmd.Context(), credentialKey, blob); err != nil {
				return fmt.Errorf("store credential: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Credential stored.")
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token or OAuth token JSON blob")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Delete(cmd.Context(), credentialKey); err != nil {
				return fmt.Errorf("delete credential: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Credential removed.")
			return err
		},
	}
}
