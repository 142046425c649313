package ccp

import (
	"crypto/tls"
)

// loadCertificate resolves a certificate configuration into a TLS client
// certificate. File-based configurations load from disk; thumbprint-based
// configurations search the platform certificate store, which is only
// available on Windows.
func loadCertificate(cfg CertificateConfig) (*tls.Certificate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case cfg.File != "":
		return loadCertificateFromFile(cfg)
	case cfg.Thumbprint != "":
		return loadCertificateFromStore(cfg)
	default:
		// Callers are expected to check IsConfigured first; the locator
		// still must not treat a zero config as loadable.
		return nil, &CertificateError{Op: "config", Err: ErrCertificateNotConfigured}
	}
}
