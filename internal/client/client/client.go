package client

import (
	"context"

	"github.com/dmitrijs2005/finlink/internal/models"
)

// Gateway is the client's view of the backend gateway. Every call is a single
// request/response round trip; nothing is retried.
type Gateway interface {
	ListAccounts(ctx context.Context, accessToken string) ([]models.Account, error)
	ListTransactions(ctx context.Context, accessToken, accountID string) ([]models.Transaction, error)
	GetBalances(ctx context.Context, accessToken, accountID string) (*models.Balance, error)
	ProcessEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.EnrollmentReceipt, error)
}

// SessionTokenSource supplies the optional user session token sent as the
// Authorization bearer. It is unrelated to the aggregator access token.
type SessionTokenSource interface {
	SessionToken(ctx context.Context) (string, bool)
}
