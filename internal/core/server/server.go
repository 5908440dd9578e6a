package server

import (
	"context"
	"fmt"
	"time"

	"smart-dispatch/internal/core/config"
	"smart-dispatch/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "smart-dispatch/docs/swagger"
)

// healthCheckTimeout bounds a single dependency probe.
const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing dependency (database, cache).
type HealthCheck struct {
	// Name is the key reported in the health response.
	Name string
	// Check returns nil when the dependency is reachable.
	Check func(ctx context.Context) error
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "smart-dispatch",
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// RegisterHealth mounts GET /health, which runs every check and answers
// 200 when all pass and 503 otherwise.
func (s *Server) RegisterHealth(checks ...HealthCheck) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := fiber.StatusOK

		for _, hc := range checks {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
			err := hc.Check(ctx)
			cancel()

			if err != nil {
				logger.Get().Warn("Health check failed", zap.String("check", hc.Name), zap.Error(err))
				resp.Checks[hc.Name] = err.Error()
				resp.Status = "degraded"
				status = fiber.StatusServiceUnavailable
				continue
			}
			resp.Checks[hc.Name] = "ok"
		}

		return c.Status(status).JSON(resp)
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Get().Info("Shutting down server")
	return s.App.ShutdownWithContext(ctx)
}
