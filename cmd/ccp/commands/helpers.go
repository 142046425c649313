package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
	ccperrors "github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/pkg/ccp"
)

// newClient loads the configuration file and builds a provider client from
// it. The caller owns the client and must Close it.
func newClient(cfg *config.Config) (*ccp.Client, error) {
	// Config loader returns user-friendly errors
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	opts, err := cfg.ToOptions()
	if err != nil {
		return nil, err
	}

	return ccp.NewClient(opts)
}

// lookupFlags are the account-selection flags shared by every command that
// retrieves a secret.
type lookupFlags struct {
	object   string
	safe     string
	folder   string
	userName string
	address  string
	database string
	policyID string
	appID    string
	params   map[string]string
}

// register adds the selection flags to the command and marks --object
// required.
func (f *lookupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.object, "object", "", "Account object name (required)")
	cmd.Flags().StringVar(&f.safe, "safe", "", "Safe containing the account")
	cmd.Flags().StringVar(&f.folder, "folder", "", "Folder within the safe")
	cmd.Flags().StringVar(&f.userName, "username", "", "Filter by account username")
	cmd.Flags().StringVar(&f.address, "address", "", "Filter by account address")
	cmd.Flags().StringVar(&f.database, "database", "", "Filter by database name")
	cmd.Flags().StringVar(&f.policyID, "policy-id", "", "Filter by policy ID")
	cmd.Flags().StringVar(&f.appID, "app-id", "", "Override the configured application ID")
	cmd.Flags().StringToStringVar(&f.params, "param", nil, "Extra query parameter as key=value (repeatable)")

	_ = cmd.MarkFlagRequired("object")
}

// validate checks the flag values cobra cannot, like an explicitly empty
// --object.
func (f *lookupFlags) validate() error {
	if f.object == "" {
		return ccperrors.UserError{
			Message:    "Object name is required",
			Suggestion: "Use --object <account-name> to name the account to retrieve",
		}
	}
	return nil
}

// request builds the account lookup from the parsed flags.
func (f *lookupFlags) request() ccp.SecretRequest {
	return ccp.SecretRequest{
		Object:   f.object,
		Safe:     f.safe,
		Folder:   f.folder,
		AppID:    f.appID,
		UserName: f.userName,
		Address:  f.address,
		Database: f.database,
		PolicyID: f.policyID,
		Params:   f.params,
	}
}
