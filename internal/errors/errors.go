package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/systmms/ccp-go/pkg/ccp"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration file error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// RetrievalError enhances secret retrieval failures with context the CLI
// user can act on, based on which typed error the client returned.
func RetrievalError(object string, err error) error {
	if err == nil {
		return nil
	}

	var ccpErr *ccp.CCPError
	if errors.As(err, &ccpErr) {
		return UserError{
			Message:    fmt.Sprintf("The credential provider refused to serve '%s'", object),
			Details:    ccpErr.Error(),
			Suggestion: ccpSuggestion(ccpErr),
			Err:        err,
		}
	}

	var certErr *ccp.CertificateError
	if errors.As(err, &certErr) {
		return UserError{
			Message:    "Client certificate problem",
			Details:    certErr.Error(),
			Suggestion: certificateSuggestion(certErr),
			Err:        err,
		}
	}

	var timeoutErr *ccp.TimeoutError
	if errors.As(err, &timeoutErr) {
		return UserError{
			Message:    fmt.Sprintf("Timed out retrieving '%s'", object),
			Suggestion: "Increase 'timeout' in ccp.yaml or check the provider's load",
			Err:        err,
		}
	}

	var netErr *ccp.NetworkError
	if errors.As(err, &netErr) {
		return UserError{
			Message:    "Unable to reach the credential provider",
			Details:    netErr.Error(),
			Suggestion: "Check 'base_url' in ccp.yaml and that the provider is reachable from this host",
			Err:        err,
		}
	}

	// Remaining typed errors (config, request validation, cancellation)
	// already render a self-explanatory message.
	return err
}

// ccpSuggestion maps provider responses onto next steps.
func ccpSuggestion(err *ccp.CCPError) string {
	switch err.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Verify the application ID is authorized for this safe in PVWA"
	case http.StatusNotFound:
		return "Verify the object name, safe, and folder match an existing account"
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "The AIM web service looks down; check the provider host"
	}
	if err.ErrorCode != "" {
		return fmt.Sprintf("Look up error code %s in the CyberArk CCP documentation", err.ErrorCode)
	}
	return ""
}

// certificateSuggestion maps certificate failures onto next steps.
func certificateSuggestion(err *ccp.CertificateError) string {
	switch err.Op {
	case "config":
		return "Configure either 'file' or 'thumbprint' for the certificate, not both"
	case "load":
		return "Check the certificate file path and permissions"
	case "decode":
		return "Check the certificate password; PKCS#12 archives need the password they were exported with"
	case "find":
		if errors.Is(err, ccp.ErrCertStoreUnsupported) {
			return "Thumbprint lookup needs the Windows certificate store; use a certificate file on this platform"
		}
		return "Verify the thumbprint and the store location/name; thumbprints are shown in certmgr.msc"
	}
	return ""
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"npm":    "Install Node.js from https://nodejs.org/",
		"python": "Install Python from https://python.org/",
		"psql":   "Install the PostgreSQL client tools",
		"mysql":  "Install the MySQL client tools",
		"docker": "Install Docker from https://docker.com/",
		"git":    "Install Git from https://git-scm.com/",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}
	if _, ok := err.(CommandError); ok {
		return err
	}

	// Simplify common technical errors
	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}
