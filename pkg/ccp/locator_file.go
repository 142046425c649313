package ccp

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"strings"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// loadCertificateFromFile loads a client certificate from disk. Files with a
// .p12 or .pfx extension, or any file configured with a password, are
// decoded as PKCS#12 archives. Everything else is treated as PEM: a separate
// key file when Key is set, otherwise a combined certificate-and-key file.
func loadCertificateFromFile(cfg CertificateConfig) (*tls.Certificate, error) {
	ext := strings.ToLower(filepath.Ext(cfg.File))
	if ext == ".p12" || ext == ".pfx" || cfg.Password != "" {
		return loadPKCS12(cfg)
	}
	return loadPEM(cfg)
}

func loadPKCS12(cfg CertificateConfig) (*tls.Certificate, error) {
	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return nil, &CertificateError{
			Op:   "load",
			File: cfg.File,
			Err:  err,
		}
	}

	key, leaf, caCerts, err := pkcs12.DecodeChain(data, cfg.Password)
	if err != nil {
		return nil, &CertificateError{
			Op:   "decode",
			File: cfg.File,
			Err:  err,
		}
	}

	cert := &tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range caCerts {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}
	return cert, nil
}

func loadPEM(cfg CertificateConfig) (*tls.Certificate, error) {
	var cert tls.Certificate
	var err error

	if cfg.Key != "" {
		cert, err = tls.LoadX509KeyPair(cfg.File, cfg.Key)
	} else {
		var data []byte
		data, err = os.ReadFile(cfg.File)
		if err == nil {
			cert, err = tls.X509KeyPair(data, data)
		}
	}
	if err != nil {
		return nil, &CertificateError{
			Op:   "load",
			File: cfg.File,
			Err:  err,
		}
	}
	return &cert, nil
}
