package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
	ccperrors "github.com/systmms/ccp-go/internal/errors"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		flags      lookupFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a secret from the credential provider",
		Long: `Retrieve an account from the Central Credential Provider and display it.

By default only the secret content is printed, making the output suitable
for scripting. Use --json to print the full account record instead.

Examples:
  # Get the secret content
  ccp get --object DatabaseAccount

  # Narrow the lookup to a safe
  ccp get --object DatabaseAccount --safe ProdSafe

  # Full account record with metadata in JSON format
  ccp get --object DatabaseAccount --json

  # Use in scripts
  export DB_PASSWORD=$(ccp get --object DatabaseAccount)`,
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
			secret, err := client.GetSecret(ctx, flags.request())
			if err != nil {
				return ccperrors.RetrievalError(flags.object, err)
			}

			// Output the result
			if jsonOutput {
				// Full account record, including provider-added properties
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(secret); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
			} else {
				// Raw value output (default)
				fmt.Print(secret.Content)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full account record as JSON")

	return cmd
}
