package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
)

// NewCompletionCommand creates the completion command for generating shell
// completion scripts.
func NewCompletionCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

Load it once for the current session:

  source <(ccp completion bash)
  ccp completion fish | source
  ccp completion powershell | Out-String | Invoke-Expression

Or install it persistently:

  # bash (Linux)
  ccp completion bash > /etc/bash_completion.d/ccp
  # bash (macOS, with bash-completion from brew)
  ccp completion bash > $(brew --prefix)/etc/bash_completion.d/ccp
  # zsh (requires compinit enabled in ~/.zshrc)
  ccp completion zsh > "${fpath[1]}/_ccp"
  # fish
  ccp completion fish > ~/.config/fish/completions/ccp.fish
  # powershell: save and dot-source the script from your profile
  ccp completion powershell > ccp.ps1
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The generators emit the root command's name, so they must run
			// against the root, not this subcommand.
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
