package ccp

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// CountingTransportFactory wraps a TransportFactory and counts how many
// clients it has built. Tests use it to assert transports are cached and
// reused rather than rebuilt per request.
type CountingTransportFactory struct {
	mu      sync.Mutex
	builds  int
	wrapped TransportFactory
}

// NewCountingTransportFactory wraps the given factory; nil falls back to
// the default factory.
func NewCountingTransportFactory(wrapped TransportFactory) *CountingTransportFactory {
	if wrapped == nil {
		wrapped = defaultTransportFactory
	}
	return &CountingTransportFactory{wrapped: wrapped}
}

// Factory returns the counting TransportFactory for NewClientWithTransportFactory.
func (f *CountingTransportFactory) Factory() TransportFactory {
	return func(cert *tls.Certificate, opts Options) (*http.Client, error) {
		f.mu.Lock()
		f.builds++
		f.mu.Unlock()
		return f.wrapped(cert, opts)
	}
}

// Builds returns how many clients the factory has built so far.
func (f *CountingTransportFactory) Builds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds
}

// WriteTestCertificate generates a self-signed client certificate and
// writes it as separate PEM files under dir, returning the certificate and
// key paths.
func WriteTestCertificate(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	certPEM, keyPEM := generateTestCertificate(t)

	certFile = filepath.Join(dir, "client.crt")
	keyFile = filepath.Join(dir, "client.key")

	if err := os.WriteFile(certFile, certPEM, 0600); err != nil {
		t.Fatalf("failed to write certificate: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	return certFile, keyFile
}

// WriteTestCertificateBundle generates a self-signed client certificate and
// writes certificate and key into one combined PEM file under dir.
func WriteTestCertificateBundle(t *testing.T, dir string) string {
	t.Helper()

	certPEM, keyPEM := generateTestCertificate(t)

	bundle := filepath.Join(dir, "client.pem")
	if err := os.WriteFile(bundle, append(certPEM, keyPEM...), 0600); err != nil {
		t.Fatalf("failed to write certificate bundle: %v", err)
	}
	return bundle
}

func generateTestCertificate(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "ccp-test-client"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}
