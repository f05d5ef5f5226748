package routes

import (
	"github.com/fathima-sithara/clips-service/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Videos     *handlers.VideoHandler
	Categories *handlers.CategoryHandler

	RequireAuth fiber.Handler
	RateLimit   fiber.Handler // optional, guards mutating routes
	Metrics     fiber.Handler // optional, served at /metrics
}

func Setup(app *fiber.App, d Deps) {
	limit := d.RateLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics)
	}

	api := app.Group("/api")
	api.Get("/health", d.Health.Health)

	auth := api.Group("/auth")
	auth.Post("/register", limit, d.Auth.Register)
	auth.Post("/login", limit, d.Auth.Login)
	auth.Get("/profile", d.RequireAuth, d.Auth.Profile)

	videos := api.Group("/videos")
	videos.Get("/", d.Videos.List)
	videos.Post("/upload", limit, d.RequireAuth, d.Videos.Upload)
	videos.Get("/user/:username", d.Videos.ByUploader)
	videos.Get("/:id", d.Videos.Get)
	videos.Delete("/:id", limit, d.RequireAuth, d.Videos.Delete)
	videos.Post("/:id/like", limit, d.Videos.Like)
	videos.Post("/:id/download", limit, d.Videos.Download)

	api.Get("/categories", d.Categories.List)
	api.Get("/categories/:slug", d.Categories.Get)

	api.Get("/trending", d.Videos.Trending)
	api.Get("/recent", d.Videos.Recent)
	api.Get("/search", d.Videos.Search)
	api.Get("/stats", d.Videos.Stats)
	api.Post("/init", limit, d.Categories.Init)
}
