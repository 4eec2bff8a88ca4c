package app

import (
	"context"
	"fmt"
	"strings"

	"job-tracker/internal/config"
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/delivery/http/routes"
	v1 "job-tracker/internal/delivery/http/routes/v1"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber app around an already wired container.
func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:         cfg.App.AppName,
		StructValidator: middleware.NewStructValidator(),
		BodyLimit:       cfg.Resume.MaxUploadBytes + 64<<10,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts its background workers and returns
// the app plus a cleanup func.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	logger := logging.New(cfg.Log.Level)

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	if err := c.Start(); err != nil {
		_ = c.Close()
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("start: %w", err)
	}

	cleanup := func() error {
		err := c.Close()
		_ = logger.Sync()
		return err
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger.With("component", "http")).Middleware())
	app.Use(middleware.NewMetricsMiddleware(c.Metrics).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	maxBytes := int64(c.Config.Resume.MaxUploadBytes)
	checks := map[string]handler.Check{"storage": nil, "redis": nil}
	if c.DB != nil {
		checks["storage"] = c.DB.Ping
	}
	if c.Redis != nil {
		checks["redis"] = c.Cache.Ping
	}

	routes.NewRegistry(routes.Options{
		Health: handler.NewHealthHandler(checks),
		V1: v1.Handlers{
			Auth:    handler.NewAuthHandler(c.Auth),
			Jobs:    handler.NewJobHandler(c.Jobs),
			Match:   handler.NewMatchHandler(c.Match),
			Resume:  handler.NewResumeHandler(c.Resume, maxBytes),
			Profile: handler.NewProfileHandler(c.Profile, maxBytes),
			Account: handler.NewAccountHandler(c.Account),
			Data:    handler.NewDataHandler(c.Data),
		},
		Auth:    middleware.NewAuthMiddleware(c.JWT).Middleware(),
		Metrics: adaptor.HTTPHandler(promhttp.HandlerFor(c.Metrics, promhttp.HandlerOpts{})),
		WS:      ws.NewHandler(c.Hub, c.JWT, c.Logger.With("component", "ws")).HandleJobsWS,
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
