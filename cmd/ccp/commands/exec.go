package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
	ccperrors "github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/internal/execenv"
	"github.com/systmms/ccp-go/internal/secure"
)

func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		flags      lookupFlags
		envVar     string
		printVar   bool
		workingDir string
		timeout    int
	)

	cmd := &cobra.Command{
		Use:   "exec --object <name> -- <command> [args...]",
		Short: "Execute a command with the secret as an ephemeral environment variable",
		Long: `Execute a command with the retrieved secret injected into its environment.
The secret is held in protected memory until the child process starts and is
never written to disk.

The command must be separated from ccp arguments with '--'.

Examples:
  ccp exec --object DBAccount --env-var PGPASSWORD -- psql -h db.example.com
  ccp exec --object APIToken -- ./deploy.sh
  ccp exec --object DBAccount --print --timeout 60 -- python app.py`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate arguments
			if len(args) == 0 {
				return ccperrors.UserError{
					Message:    "No command specified",
					Suggestion: "Use: ccp exec --object <name> -- <command> [args...]",
				}
			}

			if err := flags.validate(); err != nil {
				return err
			}

			// Validate command
			if err := execenv.ValidateCommand(args); err != nil {
				cfg.Logger.Warn("Command validation: %s", err.Error())
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

			// Wrap the secret in a SecureBuffer for secure handling
			// until the child process environment is assembled.
			secret, err := secure.NewSecureBufferFromString(password)
			if err != nil {
				return ccperrors.UserError{
					Message:    "Failed to secure the retrieved secret",
					Details:    err.Error(),
					Suggestion: "This may indicate a memory protection issue. Try running with --debug",
					Err:        err,
				}
			}
			defer secret.Destroy()

			cfg.Logger.Debug("Resolved '%s', injecting as %s", flags.object, envVar)

			// Create executor
			executor := execenv.New(cfg.Logger)

			options := execenv.ExecOptions{
				Command:    args,
				EnvVar:     envVar,
				Secret:     secret,
				PrintVar:   printVar,
				WorkingDir: workingDir,
				Timeout:    timeout,
			}

			return executor.Exec(ctx, options)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&envVar, "env-var", "CCP_SECRET", "Environment variable that receives the secret")
	cmd.Flags().BoolVar(&printVar, "print", false, "Print the injected variable (value masked)")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "Working directory for the command")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Command timeout in seconds (0 for no timeout)")

	return cmd
}
