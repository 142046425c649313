package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/pkg/ccp"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Operation failed",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Operation failed")
	assert.Contains(t, errMsg, "Connection timeout")
	assert.Contains(t, errMsg, "Check network connectivity")
	assert.Contains(t, errMsg, "💡")
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "certificate.file",
		Value:      "/missing/client.p12",
		Message:    "File does not exist",
		Suggestion: "Check the path in ccp.yaml",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "certificate.file")
	assert.Contains(t, errMsg, "/missing/client.p12")
	assert.Contains(t, errMsg, "File does not exist")
	assert.Contains(t, errMsg, "ccp.yaml")
}

// TestCommandErrorFormatting verifies CommandError includes exit code
func TestCommandErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.CommandError{
		Command:    "psql -h db",
		ExitCode:   1,
		Message:    "authentication failed",
		Suggestion: "Check the retrieved credentials",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "psql -h db")
	assert.Contains(t, errMsg, "exit code: 1")
	assert.Contains(t, errMsg, "authentication failed")
	assert.Contains(t, errMsg, "Check the retrieved credentials")
}

// TestRetrievalErrorSuggestions verifies per-failure hints for CLI users
func TestRetrievalErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		err                error
		expectedSuggestion string
	}{
		{
			name:               "denied",
			err:                &ccp.CCPError{AppID: "MyApp", StatusCode: 403, ErrorCode: "APPAP227E"},
			expectedSuggestion: "PVWA",
		},
		{
			name:               "not_found",
			err:                &ccp.CCPError{AppID: "MyApp", StatusCode: 404},
			expectedSuggestion: "existing account",
		},
		{
			name:               "gateway_down",
			err:                &ccp.CCPError{AppID: "MyApp", StatusCode: 503},
			expectedSuggestion: "looks down",
		},
		{
			name:               "unmapped_status_with_code",
			err:                &ccp.CCPError{AppID: "MyApp", StatusCode: 409, ErrorCode: "APPAP007E"},
			expectedSuggestion: "APPAP007E",
		},
		{
			name:               "certificate_load",
			err:                &ccp.CertificateError{Op: "load", File: "client.pem", Err: fmt.Errorf("no such file")},
			expectedSuggestion: "path and permissions",
		},
		{
			name:               "certificate_decode",
			err:                &ccp.CertificateError{Op: "decode", File: "client.p12", Err: fmt.Errorf("bad mac")},
			expectedSuggestion: "password",
		},
		{
			name:               "store_unsupported",
			err:                &ccp.CertificateError{Op: "find", Thumbprint: "abcd", Err: ccp.ErrCertStoreUnsupported},
			expectedSuggestion: "Windows certificate store",
		},
		{
			name:               "timeout",
			err:                &ccp.TimeoutError{AppID: "MyApp", Err: fmt.Errorf("deadline exceeded")},
			expectedSuggestion: "timeout",
		},
		{
			name:               "network",
			err:                &ccp.NetworkError{AppID: "MyApp", Err: fmt.Errorf("connection refused")},
			expectedSuggestion: "base_url",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := errors.RetrievalError("DBAcct", tt.err)
			require.Error(t, wrapped)
			assert.Contains(t, wrapped.Error(), tt.expectedSuggestion)
		})
	}
}

// TestRetrievalErrorPassthrough verifies self-explanatory errors pass as-is
func TestRetrievalErrorPassthrough(t *testing.T) {
	t.Parallel()

	cfgErr := &ccp.ConfigError{Field: "app_id", Message: "no application ID configured"}
	assert.Equal(t, error(cfgErr), errors.RetrievalError("DBAcct", cfgErr))

	assert.Nil(t, errors.RetrievalError("DBAcct", nil))
}

// TestWrapCommandNotFound verifies command not found errors have helpful suggestions
func TestWrapCommandNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command            string
		expectedSuggestion string
	}{
		{"npm", "Node.js"},
		{"docker", "Docker"},
		{"git", "Git"},
		{"python", "Python"},
		{"psql", "PostgreSQL"},
		{"unknown-cmd", "in your PATH"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			baseErr := fmt.Errorf("command not found")
			err := errors.WrapCommandNotFound(tt.command, baseErr)

			errMsg := err.Error()
			assert.Contains(t, errMsg, tt.command)
			assert.Contains(t, errMsg, tt.expectedSuggestion)
		})
	}
}

// TestSimplifyError verifies error simplification for common cases
func TestSimplifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		inputError    error
		expectedType  string
		expectedInMsg string
	}{
		{
			name:          "yaml_error",
			inputError:    fmt.Errorf("yaml: line 5: mapping values are not allowed"),
			expectedType:  "ConfigError",
			expectedInMsg: "Invalid YAML",
		},
		{
			name:          "permission_denied",
			inputError:    fmt.Errorf("permission denied"),
			expectedType:  "UserError",
			expectedInMsg: "Permission denied",
		},
		{
			name:          "file_not_found",
			inputError:    fmt.Errorf("no such file or directory"),
			expectedType:  "UserError",
			expectedInMsg: "not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			simplified := errors.SimplifyError(tt.inputError)

			errMsg := simplified.Error()
			assert.Contains(t, errMsg, tt.expectedInMsg)

			// Check error type
			switch tt.expectedType {
			case "ConfigError":
				_, ok := simplified.(errors.ConfigError)
				assert.True(t, ok, "Should be ConfigError type")
			case "UserError":
				_, ok := simplified.(errors.UserError)
				assert.True(t, ok, "Should be UserError type")
			}
		})
	}
}

// TestUserErrorUnwrap verifies error unwrapping works correctly
func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	baseErr := fmt.Errorf("base error")
	userErr := errors.UserError{
		Message: "wrapped error",
		Err:     baseErr,
	}

	unwrapped := userErr.Unwrap()
	assert.Equal(t, baseErr, unwrapped)
}

// TestNilErrorHandling verifies nil errors are handled gracefully
func TestNilErrorHandling(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.SimplifyError(nil))
	assert.Nil(t, errors.RetrievalError("obj", nil))
}
