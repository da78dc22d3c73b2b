package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/finlink/internal/client/bridge"
	"github.com/dmitrijs2005/finlink/internal/client/client"
	"github.com/dmitrijs2005/finlink/internal/client/config"
	"github.com/dmitrijs2005/finlink/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/finlink/internal/client/services"
	"github.com/dmitrijs2005/finlink/internal/client/tokenstore"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
)

// sessionTokens is the part of the token store the session commands use.
type sessionTokens interface {
	LinkedSince(ctx context.Context) (time.Time, bool)
	SessionToken(ctx context.Context) (string, bool)
	SaveSessionToken(ctx context.Context, token string) error
	ClearSessionToken(ctx context.Context) error
}

// widgetRunner runs one enrollment widget session to completion.
type widgetRunner func(ctx context.Context, cfg bridge.Config, addr string, logger logging.Logger) (bridge.Outcome, error)

type App struct {
	config    *config.Config
	db        *sql.DB
	accounts  services.AccountService
	sessions  sessionTokens
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	runWidget widgetRunner

	// last listing, so "show 2" can refer to it
	listed []models.Account
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	tokens := tokenstore.New(credentials.NewSQLiteRepository(db), logger)

	gateway := client.NewHTTPGateway(client.GatewayConfig{
		BaseURL:  c.GatewayBaseURL,
		Timeout:  c.RequestTimeout,
		Platform: c.Platform,
	}, tokens, logger)

	return &App{
		config:    c,
		db:        db,
		accounts:  services.NewAccountService(gateway, tokens, logger),
		sessions:  tokens,
		logger:    logger,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		runWidget: runWidget,
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to finlink (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLinked(ctx context.Context) bool {
	return a.accounts.IsLinked(ctx)
}

func (a *App) getStatus(ctx context.Context) string {
	if a.isLinked(ctx) {
		return "(linked)"
	}
	return "(not linked)"
}

func runWidget(ctx context.Context, cfg bridge.Config, addr string, logger logging.Logger) (bridge.Outcome, error) {
	session := bridge.NewSession(logger)
	host, err := bridge.NewHost(cfg, session, logger)
	if err != nil {
		return bridge.Outcome{}, err
	}
	if err := host.Run(ctx, addr); err != nil {
		logger.Warn(ctx, "widget host stopped", "error", err)
	}
	return session.Wait(context.WithoutCancel(ctx))
}
