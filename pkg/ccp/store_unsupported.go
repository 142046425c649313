//go:build !windows

package ccp

import "crypto/tls"

// loadCertificateFromStore reports that thumbprint lookup needs the Windows
// certificate store, which this platform does not have.
func loadCertificateFromStore(cfg CertificateConfig) (*tls.Certificate, error) {
	return nil, &CertificateError{
		Op:         "find",
		Thumbprint: cfg.Thumbprint,
		Err:        ErrCertStoreUnsupported,
	}
}
