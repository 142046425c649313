package ccp

import (
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrObjectRequired           = fmt.Errorf("object name is required")
	ErrAppIDMissing             = fmt.Errorf("no application ID configured")
	ErrBaseURLMissing           = fmt.Errorf("base URL is required")
	ErrCertificateAmbiguous     = fmt.Errorf("certificate config sets both file and thumbprint")
	ErrCertificateNotConfigured = fmt.Errorf("certificate not configured")
	ErrCertificateNotFound      = fmt.Errorf("certificate not found in store")
	ErrCertStoreUnsupported     = fmt.Errorf("certificate store not supported on this platform")
	ErrClientClosed             = fmt.Errorf("client is closed")
)

// RequestError reports an invalid SecretRequest before any network call.
type RequestError struct {
	Field   string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ConfigError reports missing or contradictory client configuration.
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
	Err        error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message
	if e.Suggestion != "" {
		msg += ". " + e.Suggestion
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CertificateError wraps certificate loading failures with context.
type CertificateError struct {
	Op         string // Operation: "config", "load", "decode", "find", "export"
	File       string
	Thumbprint string
	Err        error
}

func (e *CertificateError) Error() string {
	switch {
	case e.File != "":
		return fmt.Sprintf("certificate %s error for %s: %v", e.Op, e.File, e.Err)
	case e.Thumbprint != "":
		return fmt.Sprintf("certificate %s error for thumbprint %s: %v", e.Op, e.Thumbprint, e.Err)
	default:
		return fmt.Sprintf("certificate %s error: %v", e.Op, e.Err)
	}
}

func (e *CertificateError) Unwrap() error {
	return e.Err
}

// CCPError wraps a response from the Central Credential Provider that did
// not yield a secret: a non-success HTTP status, or a success status whose
// body could not be decoded. Body carries the raw response for diagnosis;
// ErrorCode and ErrorMessage are filled when the service returned its usual
// {"ErrorCode":...,"ErrorMsg":...} payload.
type CCPError struct {
	AppID        string
	StatusCode   int
	ErrorCode    string
	ErrorMessage string
	Body         string
	Err          error
}

func (e *CCPError) Error() string {
	msg := fmt.Sprintf("ccp request for app %q failed (status %d)", e.AppID, e.StatusCode)
	if e.ErrorCode != "" {
		msg += fmt.Sprintf(" [%s]", e.ErrorCode)
	}
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	} else if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *CCPError) Unwrap() error {
	return e.Err
}

// NetworkError wraps transport-level failures (DNS, connection refused,
// TLS handshake) with the application ID for diagnostics.
type NetworkError struct {
	AppID string
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ccp request for app %q failed: %v", e.AppID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that the configured timeout (or a caller-supplied
// deadline) elapsed before the service answered.
type TimeoutError struct {
	AppID string
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ccp request for app %q timed out: %v", e.AppID, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// CancelledError reports that the caller cancelled the request before the
// service answered. Distinguished from TimeoutError so callers can tell an
// elapsed deadline from their own cancellation.
type CancelledError struct {
	AppID string
	Err   error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("ccp request for app %q cancelled: %v", e.AppID, e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}
