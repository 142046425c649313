package ccp

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/systmms/ccp-go/internal/metrics"
)

// TransportFactory builds the *http.Client used for requests presenting the
// given client certificate (nil for the no-certificate default client). The
// built client must honor the options' timeout and TLS settings. Tests
// inject a factory to observe construction; see CountingTransportFactory.
type TransportFactory func(cert *tls.Certificate, opts Options) (*http.Client, error)

// defaultTransportFactory builds an HTTP client over an http.Transport with
// an explicit TLS config: the client certificate when given, the optional CA
// bundle from Options.RootCAs, and InsecureSkipVerify when the options ask
// for it.
func defaultTransportFactory(cert *tls.Certificate, opts Options) (*http.Client, error) {
	tlsConfig := &tls.Config{}

	if cert != nil {
		tlsConfig.Certificates = []tls.Certificate{*cert}
	}

	if opts.RootCAs != "" {
		caCert, err := os.ReadFile(opts.RootCAs)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA bundle %s", opts.RootCAs)
		}
		tlsConfig.RootCAs = caCertPool
	}

	if opts.SkipTLSVerify {
		tlsConfig.InsecureSkipVerify = true
	}

	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
		Timeout: opts.Timeout,
	}, nil
}

// transportCache maps certificate identities to constructed HTTP clients so
// each distinct certificate is loaded and wired into a transport at most
// once per retained client. Get-or-create semantics: a concurrent first use
// may build more than once, but only the first insert is kept and every
// caller observes that one.
type transportCache struct {
	mu      sync.RWMutex
	clients map[certIdentity]*http.Client
}

func newTransportCache() *transportCache {
	return &transportCache{
		clients: make(map[certIdentity]*http.Client),
	}
}

// getOrCreate returns the cached client for id, building one with build on
// first use. The build runs outside the lock; a racing loser's client has
// its idle connections closed and the winner is returned instead.
func (c *transportCache) getOrCreate(id certIdentity, build func() (*http.Client, error)) (*http.Client, error) {
	c.mu.RLock()
	client, ok := c.clients[id]
	c.mu.RUnlock()
	if ok {
		metrics.RecordTransportCache("hit")
		return client, nil
	}

	built, err := build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.clients[id]; ok {
		c.mu.Unlock()
		built.CloseIdleConnections()
		metrics.RecordTransportCache("hit")
		return existing, nil
	}
	c.clients[id] = built
	c.mu.Unlock()

	metrics.RecordTransportCache("miss")
	return built, nil
}

// drain removes and returns every cached client for release.
func (c *transportCache) drain() map[certIdentity]*http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	clients := c.clients
	c.clients = make(map[certIdentity]*http.Client)
	return clients
}

// size returns the number of cached clients.
func (c *transportCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}
