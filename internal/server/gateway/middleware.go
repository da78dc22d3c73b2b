package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/server/auth"
)

const (
	requestIDHeader = "X-Request-ID"

	localRequestID = "request_id"
	localSubject   = "session_subject"

	idempotencyPrefix = "idempotency:v1:"
	inProgressMarker  = "__in_progress__"
	cacheOpTimeout    = 2 * time.Second
)

// RequestID assigns each request an identifier, reusing one sent by the
// caller.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := utils.CopyString(c.Get(requestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDHeader, reqID)
		c.Locals(localRequestID, reqID)

		return c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		logger.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"elapsed", time.Since(started),
			"request_id", c.Locals(localRequestID),
			"platform", c.Get(common.PlatformHeaderName),
		)
		return err
	}
}

// SessionAuth checks an optional bearer session token. Requests without an
// Authorization header pass through; a present but invalid token is
// rejected.
func SessionAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if authz == "" {
			return c.Next()
		}
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		sub, err := auth.ParseToken(strings.TrimSpace(authz[len("Bearer "):]), secret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(localSubject, sub)
		return c.Next()
	}
}

type storedResponse struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

// Idempotency replays the stored response when an Idempotency-Key repeats.
// Requests without the header are not de-duplicated. Server errors are not
// stored so a retry reaches the handler again.
func Idempotency(cache *redis.Client, ttl time.Duration, logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := utils.CopyString(c.Get(common.IdempotencyKeyHeaderName))
		if key == "" {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), cacheOpTimeout)
		defer cancel()

		cacheKey := idempotencyPrefix + key

		cached, err := cache.Get(ctx, cacheKey).Result()
		if err == nil {
			if cached == inProgressMarker {
				return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
			}

			var stored storedResponse
			if err := json.Unmarshal([]byte(cached), &stored); err != nil {
				logger.Warn(ctx, "failed to decode stored idempotent response", "key", key, "error", err)
				return fiber.NewError(fiber.StatusConflict, "duplicate request")
			}

			for header, value := range stored.Headers {
				if strings.EqualFold(header, fiber.HeaderContentLength) || strings.EqualFold(header, requestIDHeader) {
					continue
				}
				c.Set(header, value)
			}
			c.Set("Idempotent-Replayed", "true")
			return c.Status(stored.Status).SendString(stored.Body)
		}

		if !errors.Is(err, redis.Nil) {
			logger.Error(ctx, "idempotency lookup failed", "key", key, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			logger.Error(ctx, "idempotency reservation failed", "key", key, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}
		if !reserved {
			return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
		}

		release := func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
			defer cancel()
			cache.Del(cleanupCtx, cacheKey)
		}

		if err := c.Next(); err != nil {
			release()
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			release()
			return nil
		}

		stored := storedResponse{
			Status:  status,
			Body:    string(c.Response().Body()),
			Headers: map[string]string{},
		}
		c.Response().Header.VisitAll(func(k, v []byte) {
			stored.Headers[string(k)] = string(v)
		})

		payload, err := json.Marshal(stored)
		if err != nil {
			logger.Error(ctx, "failed to encode idempotent response", "key", key, "error", err)
			release()
			return nil
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer persistCancel()

		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Error(ctx, "failed to persist idempotent response", "key", key, "error", err)
			cache.Del(persistCtx, cacheKey)
		}

		return nil
	}
}
