// Package teller is a minimal mutual-TLS client for the Teller API.
package teller

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.teller.io"

// maxBodySize caps upstream responses relayed verbatim.
const maxBodySize = 10 << 20

// ErrBodyTooLarge is returned when an upstream body exceeds maxBodySize.
var ErrBodyTooLarge = errors.New("upstream response too large")

// APIError is returned for a non-2xx upstream answer.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("teller api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("teller api returned %d: %s", e.StatusCode, body)
}

type Option func(*options)

type options struct {
	rootCAs *x509.CertPool
	timeout time.Duration
}

// WithRootCAs overrides the system roots used to verify the API server.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(o *options) { o.rootCAs = pool }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Client issues authenticated GETs. One Client holds one certificate pair.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client presenting the given PEM certificate and key.
func NewClient(baseURL string, certPEM, keyPEM []byte, opts ...Option) (*Client, error) {
	o := options{timeout: 30 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}

	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("load client certificate: %w", err)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			Certificates: []tls.Certificate{pair},
			RootCAs:      o.rootCAs,
			MinVersion:   tls.VersionTLS12,
		},
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: o.timeout},
	}, nil
}

// Get performs one GET on path with the access token as bearer credential
// and returns the body as received.
func (c *Client) Get(ctx context.Context, path, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, maxBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func AccountsPath() string {
	return "/accounts"
}

func TransactionsPath(accountID string) string {
	return "/accounts/" + url.PathEscape(accountID) + "/transactions"
}

func BalancesPath(accountID string) string {
	return "/accounts/" + url.PathEscape(accountID) + "/balances"
}
