package server

import (
	"github.com/fathima-sithara/clips-service/internal/config"
	"github.com/fathima-sithara/clips-service/internal/handlers"
	"github.com/fathima-sithara/clips-service/internal/metrics"
	"github.com/fathima-sithara/clips-service/internal/middleware"
	"github.com/fathima-sithara/clips-service/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// New initializes the Fiber application with config, middlewares, and routes.
func New(cfg *config.Config, d routes.Deps, m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.ZapLogger(logger))
	if m != nil {
		app.Use(m.Middleware())
		d.Metrics = m.Handler()
	}

	if cfg.Uploads.Driver == "disk" {
		app.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)
	}

	routes.Setup(app, d)
	app.Use(handlers.NotFound)

	return app
}
