package ccp

import (
	"fmt"
	"time"
)

const (
	// DefaultEndpoint is the standard CCP web service path.
	DefaultEndpoint = "/AIMWebService/api/Accounts"

	// DefaultTimeout bounds each retrieval when Options.Timeout is zero.
	DefaultTimeout = 30 * time.Second
)

// Options is the process-wide client configuration. It is validated once in
// NewClient and read-only afterwards.
type Options struct {
	// BaseURL is the scheme and host of the CCP service, e.g.
	// "https://ccp.example.com". Required.
	BaseURL string

	// AppID is the default application ID used when a request does not
	// carry its own.
	AppID string

	// Endpoint is the web service path appended to BaseURL. Defaults to
	// DefaultEndpoint.
	Endpoint string

	// Timeout bounds each retrieval. Defaults to DefaultTimeout.
	Timeout time.Duration

	// SkipTLSVerify disables server certificate verification on every
	// transport the client builds. Development/test environments only; the
	// client warns at construction when set.
	SkipTLSVerify bool

	// Certificate is the default client certificate presented when neither
	// the request nor the AppCertificates table names one.
	Certificate CertificateConfig

	// AppCertificates maps application IDs to the client certificate to
	// present for requests resolved to that ID.
	AppCertificates map[string]CertificateConfig

	// RootCAs optionally names a PEM bundle of CA certificates trusted for
	// the server, replacing the system pool.
	RootCAs string

	// Debug enables debug logging on the client's internal logger.
	Debug bool
}

// withDefaults fills Endpoint and Timeout.
func (o Options) withDefaults() Options {
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Validate fails fast on configuration the client could never use: an empty
// base URL, a negative timeout, or any certificate config that names both a
// file and a thumbprint.
func (o Options) Validate() error {
	if o.BaseURL == "" {
		return &ConfigError{
			Field:      "base_url",
			Message:    "base URL is required",
			Suggestion: "Set BaseURL to the CCP service root, e.g. https://ccp.example.com",
			Err:        ErrBaseURLMissing,
		}
	}
	if o.Timeout < 0 {
		return &ConfigError{
			Field:   "timeout",
			Value:   o.Timeout,
			Message: "timeout must not be negative",
		}
	}
	if err := o.Certificate.Validate(); err != nil {
		return &ConfigError{
			Field:   "certificate",
			Message: "invalid default certificate",
			Err:     err,
		}
	}
	for appID, cert := range o.AppCertificates {
		if err := cert.Validate(); err != nil {
			return &ConfigError{
				Field:   fmt.Sprintf("app_certificates[%s]", appID),
				Message: "invalid certificate",
				Err:     err,
			}
		}
	}
	return nil
}
