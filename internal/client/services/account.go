// Package services contains application services for the finlink client.
// This file defines the account service: the contract the presentation layer
// calls to list accounts, drill into one, link a bank and unlink it.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/finlink/internal/client/client"
	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
)

// TokenStore is the persistence the service needs for the access token.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// AccountService defines account operations for the client.
//
// Contract:
//   - ListAccounts: fresh listing; an empty list with ErrNotLinked and no
//     network call when no token is stored.
//   - ListTransactions / GetBalances: skipped (empty result, no request) when
//     the account does not expose the corresponding link.
//   - SubmitEnrollment: persist the token first, then notify the backend.
//   - Disconnect: forget the token locally.
type AccountService interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListTransactions(ctx context.Context, account models.Account) ([]models.Transaction, error)
	GetBalances(ctx context.Context, account models.Account) (*models.Balance, error)
	AccountDetail(ctx context.Context, account models.Account) (*AccountDetail, error)
	Summary(ctx context.Context) (*models.Summary, error)
	SubmitEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.EnrollmentReceipt, error)
	AccessToken(ctx context.Context) (string, bool)
	IsLinked(ctx context.Context) bool
	Disconnect(ctx context.Context) error
}

// AccountDetail is what the detail view shows for one account. Balance is nil
// and Transactions empty when the account lacks the capability.
type AccountDetail struct {
	Account      models.Account
	Balance      *models.Balance
	Transactions []models.Transaction
}

type accountService struct {
	gateway client.Gateway
	tokens  TokenStore
	logger  logging.Logger
}

// NewAccountService constructs an AccountService bound to the gateway and
// token store.
func NewAccountService(gateway client.Gateway, tokens TokenStore, logger logging.Logger) AccountService {
	return &accountService{gateway: gateway, tokens: tokens, logger: logger.With("module", "account_service")}
}

func (s *accountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	token, ok := s.tokens.Get(ctx)
	if !ok {
		return []models.Account{}, common.ErrNotLinked
	}
	return s.gateway.ListAccounts(ctx, token)
}

func (s *accountService) ListTransactions(ctx context.Context, account models.Account) ([]models.Transaction, error) {
	if !account.HasTransactions() {
		return []models.Transaction{}, nil
	}
	token, ok := s.tokens.Get(ctx)
	if !ok {
		return nil, common.ErrNotLinked
	}
	return s.gateway.ListTransactions(ctx, token, account.ID)
}

func (s *accountService) GetBalances(ctx context.Context, account models.Account) (*models.Balance, error) {
	if !account.HasBalances() {
		return nil, nil
	}
	token, ok := s.tokens.Get(ctx)
	if !ok {
		return nil, common.ErrNotLinked
	}
	return s.gateway.GetBalances(ctx, token, account.ID)
}

// AccountDetail fetches balances and transactions concurrently. Either leg may
// finish first; either may be skipped by capability gating.
func (s *accountService) AccountDetail(ctx context.Context, account models.Account) (*AccountDetail, error) {
	detail := &AccountDetail{Account: account}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.GetBalances(gctx, account)
		if err != nil {
			return fmt.Errorf("balances: %w", err)
		}
		detail.Balance = b
		return nil
	})
	g.Go(func() error {
		txns, err := s.ListTransactions(gctx, account)
		if err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		detail.Transactions = txns
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// Summary lists accounts and sums the available balances of those exposing
// balances. A failing balance is logged and left out of the total.
func (s *accountService) Summary(ctx context.Context) (*models.Summary, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{Accounts: accounts, TotalAvailable: decimal.Zero, Currency: "USD"}
	if len(accounts) > 0 {
		summary.Currency = accounts[0].CurrencyOrDefault()
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(4)

	for _, a := range accounts {
		if !a.HasBalances() {
			continue
		}
		if a.CurrencyOrDefault() != summary.Currency {
			summary.Excluded++
			continue
		}
		g.Go(func() error {
			b, err := s.GetBalances(ctx, a)
			if err != nil {
				s.logger.Warn(ctx, "balance unavailable", "account_id", a.ID, "error", err)
				return nil
			}
			if b == nil || b.Available == nil {
				return nil
			}
			mu.Lock()
			summary.TotalAvailable = summary.TotalAvailable.Add(*b.Available)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return summary, nil
}

// SubmitEnrollment stores the token before telling the backend. If the
// notification fails the token stays stored and the error is returned; the
// caller may submit again.
func (s *accountService) SubmitEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.EnrollmentReceipt, error) {
	if err := enrollment.Validate(); err != nil {
		return nil, err
	}

	if err := s.tokens.Save(ctx, enrollment.AccessToken); err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}

	receipt, err := s.gateway.ProcessEnrollment(ctx, enrollment)
	if err != nil {
		s.logger.Error(ctx, "enrollment notification failed", "enrollment_id", enrollment.Enrollment.ID, "error", err)
		return nil, fmt.Errorf("notify backend: %w", err)
	}

	s.logger.Info(ctx, "enrollment processed", "enrollment_id", receipt.EnrollmentID, "accounts", receipt.Accounts)
	return receipt, nil
}

func (s *accountService) AccessToken(ctx context.Context) (string, bool) {
	return s.tokens.Get(ctx)
}

func (s *accountService) IsLinked(ctx context.Context) bool {
	_, ok := s.tokens.Get(ctx)
	return ok
}

func (s *accountService) Disconnect(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// IsNotLinked reports whether err means no bank has been linked yet.
func IsNotLinked(err error) bool {
	return errors.Is(err, common.ErrNotLinked)
}
