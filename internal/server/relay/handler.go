// Package relay implements the serverless function that forwards a client's
// access token to the aggregator over mutual TLS.
package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/server/secrets"
	"github.com/dmitrijs2005/finlink/internal/server/teller"
)

const (
	ResourceAccounts     = "accounts"
	ResourceTransactions = "transactions"
	ResourceBalances     = "balances"
)

const (
	msgTokenRequired   = "Access token is required"
	msgAccountRequired = "Account ID is required"
)

// Fetcher performs the authenticated upstream GET.
type Fetcher interface {
	Get(ctx context.Context, path, accessToken string) ([]byte, error)
	Close()
}

// FetcherFactory builds a Fetcher from PEM material.
type FetcherFactory func(certPEM, keyPEM []byte) (Fetcher, error)

// Settings are the per-deployment values the handler needs.
type Settings struct {
	CertSecretName  string
	KeySecretName   string
	TellerBaseURL   string
	UpstreamTimeout time.Duration
}

type Handler struct {
	settings Settings
	secrets  secrets.Store
	newFetch FetcherFactory
	logger   logging.Logger
}

// NewHandler builds a Handler that talks to the aggregator with a fresh
// mTLS client on every invocation.
func NewHandler(s Settings, store secrets.Store, logger logging.Logger) *Handler {
	h := &Handler{
		settings: s,
		secrets:  store,
		logger:   logger.With("module", "relay"),
	}
	h.newFetch = func(certPEM, keyPEM []byte) (Fetcher, error) {
		return teller.NewClient(s.TellerBaseURL, certPEM, keyPEM, teller.WithTimeout(s.UpstreamTimeout))
	}
	return h
}

// WithFetcherFactory replaces the upstream client constructor.
func (h *Handler) WithFetcherFactory(f FetcherFactory) *Handler {
	h.newFetch = f
	return h
}

type requestBody struct {
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Handle is the Lambda entry point. It never returns a Go error: every
// failure is a JSON response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resource := ResolveResource(req.Path)

	body, err := decodeBody(req)
	if err != nil {
		return h.fail(ctx, resource, err), nil
	}

	if strings.TrimSpace(body.AccessToken) == "" {
		return respond(http.StatusBadRequest, errorBody{Error: msgTokenRequired}), nil
	}

	upstreamPath := teller.AccountsPath()
	switch resource {
	case ResourceTransactions, ResourceBalances:
		if strings.TrimSpace(body.AccountID) == "" {
			return respond(http.StatusBadRequest, errorBody{Error: msgAccountRequired}), nil
		}
		if resource == ResourceTransactions {
			upstreamPath = teller.TransactionsPath(body.AccountID)
		} else {
			upstreamPath = teller.BalancesPath(body.AccountID)
		}
	}

	material, err := secrets.FetchMaterial(ctx, h.secrets, h.settings.CertSecretName, h.settings.KeySecretName)
	if err != nil {
		return h.fail(ctx, resource, err), nil
	}

	client, err := h.newFetch(material.Certificate, material.PrivateKey)
	if err != nil {
		return h.fail(ctx, resource, err), nil
	}
	defer client.Close()

	data, err := client.Get(ctx, upstreamPath, body.AccessToken)
	if err != nil {
		return h.fail(ctx, resource, err), nil
	}

	h.logger.Debug(ctx, "relayed", "resource", resource, "bytes", len(data))

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}

// ResolveResource maps a request path to the upstream resource. Unknown or
// empty paths mean accounts.
func ResolveResource(p string) string {
	switch path.Base(strings.TrimRight(p, "/")) {
	case ResourceTransactions:
		return ResourceTransactions
	case ResourceBalances:
		return ResourceBalances
	default:
		return ResourceAccounts
	}
}

func decodeBody(req events.APIGatewayProxyRequest) (requestBody, error) {
	var body requestBody

	raw := req.Body
	if req.IsBase64Encoded && raw != "" {
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return body, fmt.Errorf("decode body: %w", err)
		}
		raw = string(b)
	}
	if strings.TrimSpace(raw) == "" {
		return body, nil
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return body, fmt.Errorf("parse body: %w", err)
	}
	return body, nil
}

func (h *Handler) fail(ctx context.Context, resource string, err error) events.APIGatewayProxyResponse {
	h.logger.Error(ctx, "error fetching from teller api", "resource", resource, "error", err)
	return respond(http.StatusInternalServerError, errorBody{
		Error:   "Failed to fetch " + resource,
		Message: err.Error(),
	})
}

func respond(status int, v any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte(`{"error":"internal error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}
