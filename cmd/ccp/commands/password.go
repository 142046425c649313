package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
	ccperrors "github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/internal/secure"
)

func NewPasswordCommand(cfg *config.Config) *cobra.Command {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Get only the password content of an account",
		Long: `Retrieve an account and print only its password content.

The account's metadata is discarded and the value is held in protected
memory until printed. An account whose content is empty is reported as an
error rather than printed, so a broken lookup cannot silently produce an
empty credential in a script.

Examples:
  ccp password --object DatabaseAccount
  ccp password --object DatabaseAccount --safe ProdSafe --username app_user`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ctx := context.Background()
			password, err := client.GetPasswordOnly(ctx, flags.request())
			if err != nil {
				return ccperrors.RetrievalError(flags.object, err)
			}
			if password == "" {
				return ccperrors.UserError{
					Message:    fmt.Sprintf("Account '%s' has no password content", flags.object),
					Suggestion: "Check the account in PVWA; its Content field came back empty",
				}
			}

			// Keep the value protected until the moment it is written out.
			buf, err := secure.NewSecureBufferFromString(password)
			if err != nil {
				return ccperrors.UserError{
					Message:    "Failed to protect the retrieved password in memory",
					Details:    err.Error(),
					Suggestion: "Try running with --debug for more information",
					Err:        err,
				}
			}
			defer buf.Destroy()

			value, err := buf.RevealString()
			if err != nil {
				return ccperrors.UserError{
					Message:    "Failed to open secure buffer",
					Details:    err.Error(),
					Suggestion: "Try running with --debug for more information",
					Err:        err,
				}
			}

			fmt.Print(value)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
