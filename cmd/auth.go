package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"meetprep/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google account access",
		Long: `Authorize meetprep to read your Gmail inbox, send email and read Drive
documents. Prints an authorization URL; paste the code Google returns to
complete the flow. The token is cached per account, so this is needed
once per account.

Requires MEETPREP_GOOGLE_CLIENT_ID and MEETPREP_GOOGLE_CLIENT_SECRET to
be set to your OAuth client credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %q is already authorized.\n", account)
				return nil
			}

			url, err := google.GetAuthURL()
			if err != nil {
				return err
			}

			fmt.Printf("Open the following URL in your browser:\n\n%s\n\n", url)
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("authorization code is empty")
			}

			if err := google.SaveTokenForAccount(context.Background(), account, code); err != nil {
				return err
			}

			fmt.Printf("Account %q authorized.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to authorize")
	return cmd
}
