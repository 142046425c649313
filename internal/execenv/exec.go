package execenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	ccperrors "github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/internal/logging"
	"github.com/systmms/ccp-go/internal/secure"
)

// Executor runs commands with a retrieved secret injected into their
// environment.
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// ExecOptions configures command execution
type ExecOptions struct {
	Command    []string             // Command and arguments to run
	EnvVar     string               // Environment variable that receives the secret
	Secret     *secure.SecureBuffer // Secret content for the child process
	PrintVar   bool                 // Print the injected variable (value masked)
	WorkingDir string               // Working directory for the command
	Timeout    int                  // Timeout in seconds (0 for no timeout)
}

// Exec runs a command with the secret exposed as a single environment
// variable.
func (e *Executor) Exec(ctx context.Context, options ExecOptions) error {
	if len(options.Command) == 0 {
		return ccperrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., ccp exec --object DBAcct -- psql)",
		}
	}
	if options.EnvVar == "" {
		return ccperrors.UserError{
			Message:    "No environment variable name specified",
			Suggestion: "Pass --env-var to name the variable that receives the secret",
		}
	}
	if options.Secret == nil {
		return ccperrors.UserError{
			Message:    "No secret available to inject",
			Suggestion: "Retrieve the secret before running the command",
		}
	}

	// Apply timeout if specified
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(options.Timeout)*time.Second)
		defer cancel()
	}

	// Validate command exists
	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return ccperrors.WrapCommandNotFound(cmdName, err)
	}

	// exec.Cmd needs plain strings, so the value unavoidably leaves
	// protected memory here.
	value, err := options.Secret.RevealString()
	if err != nil {
		return ccperrors.UserError{
			Message:    "Failed to open secure buffer",
			Details:    err.Error(),
			Suggestion: "Retrieve the secret again before running the command",
			Err:        err,
		}
	}

	env := e.buildEnvironment(options.EnvVar, value)

	// Print the variable if requested
	if options.PrintVar {
		e.printVariable(options.EnvVar, value)
	}

	// Create command
	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	// Set working directory if specified
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	e.logger.Debug("Executing command: %s", strings.Join(options.Command, " "))
	e.logger.Debug("Secret injected as %s", options.EnvVar)

	// Run the command
	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			// Preserve the exit code from the child process
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				os.Exit(status.ExitStatus())
			}
			os.Exit(1)
		}
		return ccperrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment creates the environment slice for the child process:
// the parent environment plus the injected variable. A parent variable
// with the same name is replaced.
func (e *Executor) buildEnvironment(name, value string) []string {
	// Start with current environment
	currentEnv := os.Environ()
	envMap := make(map[string]string)

	// Parse current environment into map
	for _, env := range currentEnv {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	envMap[name] = value

	// Convert back to environment slice
	result := make([]string, 0, len(envMap))
	for key, val := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, val))
	}

	// Sort for consistent ordering (helps with debugging)
	sort.Strings(result)

	return result
}

// printVariable displays the injected variable (value masked for security)
func (e *Executor) printVariable(name, value string) {
	fmt.Printf("Injecting %s=%s\n", name, maskValue(value))
}

// maskValue masks a secret value for display
func maskValue(value string) string {
	if len(value) == 0 {
		return "(empty)"
	}

	// Show first and last characters for very short values
	if len(value) <= 3 {
		return strings.Repeat("*", len(value))
	}

	// Show first 2 and last 1 characters for longer values
	if len(value) <= 8 {
		return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}

	// For long values, show first 3 and last 2 with asterisks in between
	return value[:3] + strings.Repeat("*", 8) + value[len(value)-2:]
}

// ValidateCommand checks if a command is safe and accessible
func ValidateCommand(command []string) error {
	if len(command) == 0 {
		return ccperrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., ccp exec --object DBAcct -- psql)",
		}
	}

	cmdName := command[0]

	// Check if command exists in PATH
	if _, err := exec.LookPath(cmdName); err != nil {
		return ccperrors.WrapCommandNotFound(cmdName, err)
	}

	// Security check: prevent some dangerous commands
	// Note: This is not comprehensive security - just basic safety
	dangerousCommands := []string{
		"rm", "rmdir", "del", "format", "fdisk",
		"dd", "mkfs", "parted", "shutdown", "reboot",
	}

	for _, dangerous := range dangerousCommands {
		if cmdName == dangerous || strings.HasSuffix(cmdName, "/"+dangerous) {
			return ccperrors.UserError{
				Message:    fmt.Sprintf("Potentially dangerous command '%s'", cmdName),
				Suggestion: "Use this command with extreme caution or consider safer alternatives",
			}
		}
	}

	return nil
}
