package ccp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/systmms/ccp-go/internal/logging"
	"github.com/systmms/ccp-go/internal/metrics"
)

// Client retrieves secrets from a CyberArk Central Credential Provider over
// its REST web service. A single Client is safe for concurrent use; it
// caches one HTTP transport per distinct client certificate so repeated
// retrievals do not reload certificates or re-dial TLS.
type Client struct {
	opts          Options
	factory       TransportFactory
	cache         *transportCache
	defaultClient *http.Client
	logger        *logging.Logger

	mu     sync.RWMutex
	closed bool
}

// Verify Client satisfies io.Closer
var _ io.Closer = (*Client)(nil)

// NewClient creates a client for the given options. The transport used for
// requests without a client certificate is built immediately so broken TLS
// options fail here rather than on first retrieval.
func NewClient(opts Options) (*Client, error) {
	return NewClientWithTransportFactory(opts, defaultTransportFactory)
}

// NewClientWithTransportFactory creates a client whose HTTP transports come
// from the given factory. Tests use this to observe and stub transport
// construction; a nil factory falls back to the default.
func NewClientWithTransportFactory(opts Options, factory TransportFactory) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	if factory == nil {
		factory = defaultTransportFactory
	}

	logger := logging.New(opts.Debug, false)
	if opts.SkipTLSVerify {
		logger.Warn("TLS certificate verification is disabled")
	}

	defaultClient, err := factory(nil, opts)
	if err != nil {
		return nil, err
	}

	return &Client{
		opts:          opts,
		factory:       factory,
		cache:         newTransportCache(),
		defaultClient: defaultClient,
		logger:        logger,
	}, nil
}

// GetSecret retrieves the account matching the request's query attributes.
// The returned secret carries every field the provider responded with,
// including response keys outside the documented set (AdditionalFields).
func (c *Client) GetSecret(ctx context.Context, req SecretRequest) (*Secret, error) {
	start := time.Now()
	secret, err := c.getSecret(ctx, req)
	metrics.RecordRequest(outcomeLabel(err), time.Since(start).Seconds())
	return secret, err
}

func (c *Client) getSecret(ctx context.Context, req SecretRequest) (*Secret, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}

	if req.Object == "" {
		return nil, &RequestError{
			Field:   "object",
			Message: "object name is required",
			Err:     ErrObjectRequired,
		}
	}

	appID, err := effectiveAppID(req, c.opts)
	if err != nil {
		return nil, err
	}

	client, err := c.httpClient(effectiveCertificate(req, appID, c.opts))
	if err != nil {
		return nil, err
	}

	reqURL := requestURL(c.opts, buildQuery(appID, req))
	c.logger.Debug("GET %s", reqURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ConfigError{
			Field:   "base_url",
			Value:   c.opts.BaseURL,
			Message: fmt.Sprintf("failed to build request URL: %v", err),
			Err:     err,
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, appID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, newCCPError(appID, resp)
	}

	var secret Secret
	if err := json.NewDecoder(resp.Body).Decode(&secret); err != nil {
		return nil, &CCPError{
			AppID:        appID,
			StatusCode:   resp.StatusCode,
			ErrorMessage: "failed to decode response body",
			Err:          err,
		}
	}

	c.logger.Debug("retrieved object %q for application %q", req.Object, appID)
	return &secret, nil
}

// GetSecretByName retrieves a secret by application ID, safe, and object
// name without building a request by hand.
func (c *Client) GetSecretByName(ctx context.Context, appID, safe, object string) (*Secret, error) {
	return c.GetSecret(ctx, NewSecretRequest(object).WithSafe(safe).WithAppID(appID))
}

// GetPasswordOnly retrieves only the password content for the request.
func (c *Client) GetPasswordOnly(ctx context.Context, req SecretRequest) (string, error) {
	secret, err := c.GetSecret(ctx, req)
	if err != nil {
		return "", err
	}
	return secret.Content, nil
}

// GetPasswordOnlyByName retrieves only the password content by application
// ID, safe, and object name.
func (c *Client) GetPasswordOnlyByName(ctx context.Context, appID, safe, object string) (string, error) {
	secret, err := c.GetSecretByName(ctx, appID, safe, object)
	if err != nil {
		return "", err
	}
	return secret.Content, nil
}

// TestConnection probes whether the provider endpoint is reachable. It
// requests a synthetic object under the configured default application ID
// and treats any HTTP response as connected unless the gateway reports
// itself unavailable. This is a liveness probe, not a correctness check of
// the returned secret.
func (c *Client) TestConnection(ctx context.Context) bool {
	if c.opts.AppID == "" {
		c.logger.Warn("connection test requires a default application ID")
		return false
	}

	_, err := c.GetSecret(ctx, NewSecretRequest("test"))
	if err == nil {
		return true
	}

	// Any HTTP response proves reachability, even a denial.
	var ccpErr *CCPError
	if errors.As(err, &ccpErr) {
		switch ccpErr.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return false
		default:
			return true
		}
	}

	c.logger.Debug("connection test failed: %v", err)
	return false
}

// Close releases every cached transport, each independently so one release
// cannot strand the rest. Close is idempotent; retrievals on a closed
// client fail with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	for id, client := range c.cache.drain() {
		client.CloseIdleConnections()
		c.logger.Debug("released transport for %s", id)
	}
	if c.defaultClient != nil {
		c.defaultClient.CloseIdleConnections()
		c.logger.Debug("released default transport")
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// httpClient returns the transport for the certificate configuration,
// loading the certificate and building the client on first use. Requests
// without a certificate share the default transport.
func (c *Client) httpClient(certCfg CertificateConfig) (*http.Client, error) {
	if !certCfg.IsConfigured() {
		return c.defaultClient, nil
	}

	id := certCfg.identity()
	return c.cache.getOrCreate(id, func() (*http.Client, error) {
		c.logger.Debug("building transport for %s", id)
		cert, err := loadCertificate(certCfg)
		if err != nil {
			return nil, err
		}
		return c.factory(cert, c.opts)
	})
}

// classifyTransportError maps a failed HTTP round trip onto the error
// taxonomy. Cancellation wins over deadline when both apply; the HTTP
// client's own timeout already satisfies errors.Is against
// context.DeadlineExceeded.
func classifyTransportError(ctx context.Context, appID string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return &CancelledError{AppID: appID, Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return &TimeoutError{AppID: appID, Err: err}
	default:
		return &NetworkError{AppID: appID, Err: err}
	}
}

// ccpFailure is the error payload the provider returns on non-success
// responses.
type ccpFailure struct {
	ErrorCode string `json:"ErrorCode"`
	ErrorMsg  string `json:"ErrorMsg"`
}

// newCCPError builds a CCPError from a non-success response, keeping the
// raw body and extracting the provider's error code when the body parses.
func newCCPError(appID string, resp *http.Response) *CCPError {
	body, _ := io.ReadAll(resp.Body)

	ccpErr := &CCPError{
		AppID:      appID,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	var failure ccpFailure
	if err := json.Unmarshal(body, &failure); err == nil {
		ccpErr.ErrorCode = failure.ErrorCode
		ccpErr.ErrorMessage = failure.ErrorMsg
	}
	return ccpErr
}

// outcomeLabel maps a retrieval result onto the metrics outcome label.
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}

	var (
		reqErr     *RequestError
		cfgErr     *ConfigError
		certErr    *CertificateError
		ccpErr     *CCPError
		timeoutErr *TimeoutError
		cancelErr  *CancelledError
		netErr     *NetworkError
	)

	switch {
	case errors.Is(err, ErrClientClosed):
		return "closed"
	case errors.As(err, &reqErr):
		return "invalid_request"
	case errors.As(err, &cfgErr):
		return "config"
	case errors.As(err, &certErr):
		return "certificate"
	case errors.As(err, &ccpErr):
		return "ccp_error"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &cancelErr):
		return "cancelled"
	case errors.As(err, &netErr):
		return "network"
	default:
		return "error"
	}
}
