package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
)

// NewSchemaCommand creates the schema command that prints the configuration
// file schema.
func NewSchemaCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration file JSON schema",
		Long: `Print the JSON schema that ccp.yaml is validated against.

The output is the exact schema the loader applies, so it can be fed to
editors and linters for completion and validation:

  ccp schema > ccp.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(config.Schema())
			return nil
		},
	}

	return cmd
}
