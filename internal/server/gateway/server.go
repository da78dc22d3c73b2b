// Package gateway is the self-hosted HTTP front of the backend. It exposes
// the relay under plain HTTP routes and records enrollment notifications.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/server/enrollments"
)

// Relay is the serverless function shape the gateway adapts requests into.
type Relay interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

type Deps struct {
	Relay          Relay
	Enrollments    enrollments.Processor
	Cache          *redis.Client // nil disables idempotent replay
	IdempotencyTTL time.Duration
	JWTSecret      []byte // empty disables session checks
	Logger         logging.Logger
}

type Server struct {
	app    *fiber.App
	logger logging.Logger
}

func New(d Deps) *Server {
	logger := d.Logger.With("module", "gateway")

	app := fiber.New(fiber.Config{
		AppName:               "finlink-gateway",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(RequestID())
	app.Use(AccessLog(logger))

	app.Get("/health", health)

	var guard []fiber.Handler
	if len(d.JWTSecret) > 0 {
		guard = append(guard, SessionAuth(d.JWTSecret))
	}

	relay := append(guard[:len(guard):len(guard)], relayHandler(d.Relay))
	app.Post("/accounts", relay...)
	app.Post("/transactions", relay...)
	app.Post("/balances", relay...)

	enroll := guard[:len(guard):len(guard)]
	if d.Cache != nil {
		enroll = append(enroll, Idempotency(d.Cache, d.IdempotencyTTL, logger))
	}
	enroll = append(enroll, processEnrollment(d.Enrollments, logger))
	app.Post("/process-enrollment", enroll...)

	return &Server{app: app, logger: logger}
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "gateway listening", "addr", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	s.logger.Info(ctx, "gateway stopped")
	return nil
}

func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(errorBody{Error: msg})
	}
}
