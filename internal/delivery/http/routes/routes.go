package routes

import (
	"job-tracker/internal/delivery/http/handler"
	v1 "job-tracker/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health  *handler.HealthHandler
	v1      v1.Handlers
	auth    fiber.Handler
	metrics fiber.Handler
	ws      fiber.Handler
}

type Options struct {
	Health *handler.HealthHandler
	V1     v1.Handlers
	// Auth guards every API route except /auth.
	Auth fiber.Handler
	// Metrics serves /metrics when set.
	Metrics fiber.Handler
	// WS serves /ws when set.
	WS fiber.Handler
}

func NewRegistry(opts Options) *Registry {
	if opts.Health == nil {
		opts.Health = handler.NewHealthHandler(nil)
	}
	return &Registry{health: opts.Health, v1: opts.V1, auth: opts.Auth, metrics: opts.Metrics, ws: opts.WS}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.metrics != nil {
		app.Get("/metrics", r.metrics)
	}
	if r.ws != nil {
		app.Get("/ws", r.ws)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	auth := r.auth
	if auth == nil {
		auth = func(c fiber.Ctx) error { return c.Next() }
	}
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1, auth)
}
