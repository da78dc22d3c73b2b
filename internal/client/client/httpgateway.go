package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/cryptox"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
	"github.com/dmitrijs2005/finlink/internal/netx"
)

// DefaultTimeout bounds every gateway request.
const DefaultTimeout = 30 * time.Second

const (
	accountsPath          = "/accounts"
	transactionsPath      = "/transactions"
	balancesPath          = "/balances"
	processEnrollmentPath = "/process-enrollment"
)

// GatewayConfig configures HTTPGateway.
type GatewayConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Platform string
}

type HTTPGateway struct {
	cfg        GatewayConfig
	httpClient *http.Client
	session    SessionTokenSource
	logger     logging.Logger
}

// Ensure HTTPGateway implements Gateway
var _ Gateway = (*HTTPGateway)(nil)

// NewHTTPGateway builds a gateway client. session may be nil.
func NewHTTPGateway(cfg GatewayConfig, session SessionTokenSource, logger logging.Logger) *HTTPGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &HTTPGateway{
		cfg:        cfg,
		httpClient: &http.Client{},
		session:    session,
		logger:     logger.With("module", "gateway_client"),
	}
}

type accountRequest struct {
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId,omitempty"`
}

type enrollmentRequest struct {
	Enrollment *models.Enrollment `json:"enrollment"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (g *HTTPGateway) ListAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	var accounts []models.Account
	if err := g.post(ctx, accountsPath, nil, accountRequest{AccessToken: accessToken}, &accounts); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

func (g *HTTPGateway) ListTransactions(ctx context.Context, accessToken, accountID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	req := accountRequest{AccessToken: accessToken, AccountID: accountID}
	if err := g.post(ctx, transactionsPath, nil, req, &txns); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return txns, nil
}

func (g *HTTPGateway) GetBalances(ctx context.Context, accessToken, accountID string) (*models.Balance, error) {
	var balance models.Balance
	req := accountRequest{AccessToken: accessToken, AccountID: accountID}
	if err := g.post(ctx, balancesPath, nil, req, &balance); err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	return &balance, nil
}

// ProcessEnrollment notifies the backend about a completed enrollment. The
// Idempotency-Key is derived from the enrollment so a retry of the same
// notification is recognised by the gateway.
func (g *HTTPGateway) ProcessEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.EnrollmentReceipt, error) {
	if err := enrollment.Validate(); err != nil {
		return nil, err
	}

	key, err := idempotencyKey(enrollment)
	if err != nil {
		return nil, err
	}
	headers := http.Header{}
	headers.Set(common.IdempotencyKeyHeaderName, key)

	var receipt models.EnrollmentReceipt
	if err := g.post(ctx, processEnrollmentPath, headers, enrollmentRequest{Enrollment: enrollment}, &receipt); err != nil {
		return nil, fmt.Errorf("process enrollment: %w", err)
	}
	return &receipt, nil
}

func idempotencyKey(e *models.Enrollment) (string, error) {
	if e.Enrollment.ID != "" {
		return "enrollment:" + e.Enrollment.ID, nil
	}
	fp, err := cryptox.Fingerprint(e.AccessToken, nil)
	if err != nil {
		return "", err
	}
	return "enrollment:" + fp, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, extra http.Header, payload any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	headers := http.Header{}
	for k, vs := range extra {
		headers[k] = vs
	}
	headers.Set(common.PlatformHeaderName, g.cfg.Platform)
	if token, ok := g.sessionToken(ctx); ok {
		headers.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := netx.PostJSON(ctx, g.httpClient, g.cfg.BaseURL+path, headers, payload)
	if err != nil {
		g.logger.Warn(ctx, "gateway request failed", "path", path, "error", err)
		return classifyTransportError(err)
	}

	g.logger.Debug(ctx, "gateway request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", common.ErrUpstream, err)
	}
	return nil
}

func (g *HTTPGateway) sessionToken(ctx context.Context) (string, bool) {
	if g.session == nil {
		return "", false
	}
	return g.session.SessionToken(ctx)
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", common.ErrNetwork, err)
}

func statusError(resp *netx.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		se.Message = body.Error
		se.Detail = body.Message
	} else {
		se.Message = strings.TrimSpace(string(resp.Body))
	}

	switch {
	case resp.StatusCode >= 500:
		se.Err = common.ErrUpstream
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		se.Err = ErrUnauthorized
	default:
		se.Err = common.ErrValidation
	}
	return se
}
