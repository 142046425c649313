// Package ccp retrieves secrets from a CyberArk Central Credential
// Provider (CCP) over its REST web service.
//
// The provider authenticates callers by application ID, optionally combined
// with a TLS client certificate. Certificates can be loaded from PEM or
// PKCS#12 files, or located by thumbprint in the Windows certificate store.
// A Client builds one HTTP transport per distinct certificate and reuses it
// across requests, so certificate loading and TLS setup happen once per
// configuration rather than once per retrieval.
//
// # Usage
//
// Create a client and fetch an account:
//
//	client, err := ccp.NewClient(ccp.Options{
//	    BaseURL: "https://ccp.example.com",
//	    AppID:   "MyApp",
//	})
//	if err != nil {
//	    // Handle error
//	}
//	defer client.Close()
//
//	secret, err := client.GetSecret(ctx, ccp.NewSecretRequest("DBAccount").
//	    WithSafe("ProdSafe"))
//	if err != nil {
//	    // Handle error - see the typed errors in errors.go
//	}
//	password := secret.Content
//
// Requests may carry their own application ID and certificate, which take
// precedence over the client options. Per-application certificates can be
// mapped through Options.AppCertificates.
//
// # Errors
//
// Failures surface as typed errors that wrap sentinel values, so callers
// can branch with errors.As and errors.Is:
//
//   - *RequestError: the request itself is invalid (missing object name)
//   - *ConfigError: options are incomplete (no base URL, no application ID)
//   - *CertificateError: a certificate could not be loaded or found
//   - *CCPError: the provider answered with a non-success status; carries
//     the provider's ErrorCode, message, and raw body
//   - *NetworkError, *TimeoutError, *CancelledError: the request never
//     completed
package ccp
