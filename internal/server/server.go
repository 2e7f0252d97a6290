package server

import (
	"context"

	"cloudnotes-be/internal/bootstrap"
	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             10 * 1024 * 1024, // 10MB
		ErrorHandler:          serverutils.NewErrorHandler(container.Logger),
		DisableStartupMessage: cfg.IsProduction(),
	})

	// CORS first so every response, including errors and panics, carries the fixed headers.
	app.Use(serverutils.CORSMiddleware(cfg.App.AllowedOrigin))
	app.Use(recover.New())

	// OpenTelemetry tracing middleware (no-op unless a tracer provider is installed)
	app.Use(otelfiber.Middleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("HTTP", "Server is running", map[string]interface{}{
		"Address": "http://localhost:" + s.cfg.App.Port,
		"Prefix":  s.cfg.App.APIPrefix,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group(cfg.App.APIPrefix)
	auth := serverutils.IdentityMiddleware(c.IdentityResolver)

	c.NoteController.RegisterRoutes(api, auth)
	c.FileController.RegisterRoutes(api, auth)
}
