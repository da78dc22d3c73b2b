package bridge

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/finlink/internal/logging"
)

//go:embed page.html.tmpl
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "page.html.tmpl"))

// Host serves the widget page to a local browser and feeds the messages the
// page posts back into a Session.
type Host struct {
	cfg     Config
	session *Session
	logger  logging.Logger
	app     *fiber.App

	mu sync.Mutex
	// reloading is set between an accepted /reload and the next page load.
	// The unload beacon of the page being replaced must not end the session.
	reloading bool
}

type loadErrorRequest struct {
	Message string `json:"message"`
}

func NewHost(cfg Config, session *Session, logger logging.Logger) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Host{
		cfg:     cfg,
		session: session,
		logger:  logger.With("module", "bridge_host"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "finlink-connect",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	app.Get("/", h.page)
	app.Post("/messages", h.messages)
	app.Post("/load-error", h.loadError)
	app.Post("/reload", h.reload)
	app.Post("/close", h.close)
	h.app = app

	return h, nil
}

// App exposes the underlying fiber app.
func (h *Host) App() *fiber.App {
	return h.app
}

// Run opens the session and serves on addr until ctx is done or the session
// reaches its outcome.
func (h *Host) Run(ctx context.Context, addr string) error {
	if err := h.session.Open(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.app.Listen(addr)
	}()
	h.logger.Info(ctx, "enrollment widget available", "url", "http://"+addr+"/")

	select {
	case err := <-errCh:
		h.session.LoadFailed(ctx, err)
		h.session.Close(ctx)
		return err
	case <-ctx.Done():
		h.session.Close(ctx)
	case <-h.session.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.app.ShutdownWithContext(shutdownCtx)
}

func (h *Host) page(c *fiber.Ctx) error {
	h.mu.Lock()
	h.reloading = false
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, h.cfg); err != nil {
		h.logger.Error(c.UserContext(), "render widget page", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func (h *Host) messages(c *fiber.Ctx) error {
	if err := h.session.DeliverRaw(c.UserContext(), c.Body()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Host) loadError(c *fiber.Ctx) error {
	var req loadErrorRequest
	_ = c.BodyParser(&req)
	if req.Message == "" {
		req.Message = "unknown error"
	}
	h.session.LoadFailed(c.UserContext(), errors.New(req.Message))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Host) reload(c *fiber.Ctx) error {
	if err := h.session.Reload(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	h.mu.Lock()
	h.reloading = true
	h.mu.Unlock()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Host) close(c *fiber.Ctx) error {
	h.mu.Lock()
	reloading := h.reloading
	h.mu.Unlock()
	if reloading {
		h.logger.Debug(c.UserContext(), "close ignored while widget reloads")
		return c.SendStatus(fiber.StatusNoContent)
	}
	h.session.Close(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}
