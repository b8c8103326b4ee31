package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/metrics"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
)

// GenerateHandler is the generator side of the remote hand-off.
type GenerateHandler interface {
	Handle(ctx context.Context, req pipeline.GenerateRequest) (pipeline.GenerateResponse, error)
}

// HealthChecker reports whether a dependency (the history store) is usable.
type HealthChecker func(ctx context.Context) error

type Server struct {
	app     *fiber.App
	handler GenerateHandler
	health  HealthChecker
	log     logging.Logger
}

type errorResponse struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind"`
	Missing []string `json:"missing,omitempty"`
}

// New wires the routes. m and health may be nil.
func New(handler GenerateHandler, m *metrics.Metrics, health HealthChecker, log logging.Logger) *Server {
	if log == nil {
		log = logging.NewNopLogger()
	}

	s := &Server{
		handler: handler,
		health:  health,
		log:     log,
	}

	app := fiber.New(fiber.Config{
		AppName:               "linkedin-autoposter",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Generation waits on the LLM.
		WriteTimeout: 2 * time.Minute,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Header: "X-Request-ID", ContextKey: "requestid"}))
	app.Use(s.requestLogger())

	app.Post("/generate", s.generate)
	app.Get("/health", s.healthz)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	s.app = app
	return s
}

// App exposes the fiber app, mostly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving on the given port until Shutdown is called.
func (s *Server) Start(port string) error {
	s.log.WithField("port", port).Info("🌐 Generator endpoint listening")
	return s.app.Listen(":" + port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) generate(c *fiber.Ctx) error {
	var req pipeline.GenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error(), Kind: "bad_request"})
		}
	}

	resp, err := s.handler.Handle(c.UserContext(), req)
	if err != nil {
		status, body := mapError(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(resp)
}

func (s *Server) healthz(c *fiber.Ctx) error {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// mapError turns pipeline errors into an HTTP status and JSON body.
func mapError(err error) (int, errorResponse) {
	var cfgErr *models.ConfigurationError
	var genErr *models.GenerationError
	switch {
	case errors.As(err, &cfgErr):
		return fiber.StatusServiceUnavailable, errorResponse{Error: err.Error(), Kind: "configuration", Missing: cfgErr.Missing}
	case errors.As(err, &genErr):
		return fiber.StatusBadGateway, errorResponse{Error: err.Error(), Kind: "generation"}
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, errorResponse{Error: err.Error(), Kind: "timeout"}
	default:
		return fiber.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"}
	}
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		entry := s.log.WithFields(logging.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.Locals("requestid"),
		})
		if err != nil {
			entry = entry.WithError(err)
		}

		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Debug("request completed")
		}
		return err
	}
}
