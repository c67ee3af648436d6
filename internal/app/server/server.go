package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/config"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/http/handler"
	"github.com/sifan077/LinkDesk/internal/http/middleware"
	"github.com/sifan077/LinkDesk/internal/http/session"
	"github.com/sifan077/LinkDesk/internal/http/util"
	"github.com/sifan077/LinkDesk/internal/infra/prometheus"
	"go.uber.org/zap"
)

// Dependencies bundles what the HTTP server needs. Infrastructure clients are
// reduced to health probes so the server can be built without them in tests.
type Dependencies struct {
	Logger  *zap.Logger
	Config  config.Config
	Metrics *prometheus.Metrics

	URLs   service.URLService
	Tags   service.TagService
	Admins service.AdminService
	Stats  service.StatService

	Sessions       *session.Store
	ClickPublisher handler.ClickPublisher
	ClickCounter   handler.ClickCounter
	HealthChecks   map[string]handler.HealthCheck
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates the HTTP server with the middleware chain and all routes.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = prometheus.NewMetrics(nil)
	}

	app := fiber.New(fiber.Config{
		AppName:               "LinkDesk",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	s := &Server{app: app, deps: deps}
	s.registerRoutes()
	return s
}

// App exposes the Fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	cfg := s.deps.Config
	log := s.deps.Logger
	tokens := util.NewTokenSigner([]byte(cfg.Session.Secret), cfg.Session.TTL)

	s.app.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Metrics(s.deps.Metrics),
		middleware.CORS(cfg.App.BaseURL),
		middleware.Session(s.deps.Sessions, cfg.Session.CookieName, log),
		middleware.Logger(log),
	)

	handler.NewHealthHandler(handler.HealthDeps{
		Logger: log,
		Checks: s.deps.HealthChecks,
	}).Register(s.app)

	handler.NewURLHandler(handler.URLDeps{
		Logger:  log.Named("url"),
		URLs:    s.deps.URLs,
		Tags:    s.deps.Tags,
		Stats:   s.deps.Stats,
		Metrics: s.deps.Metrics,
		BaseURL: cfg.App.BaseURL,
	}).Register(s.app)

	handler.NewRedirectHandler(handler.RedirectDeps{
		Logger:         log.Named("redirect"),
		URLs:           s.deps.URLs,
		ClickPublisher: s.deps.ClickPublisher,
		Metrics:        s.deps.Metrics,
	}).Register(s.app)

	handler.NewAuthHandler(handler.AuthDeps{
		Logger:       log.Named("auth"),
		Admins:       s.deps.Admins,
		Sessions:     s.deps.Sessions,
		Tokens:       tokens,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.Secure,
	}).Register(s.app)

	admin := s.app.Group("/admin", middleware.RequireAdmin(), middleware.CSRF(tokens))
	handler.NewAdminHandler(handler.AdminDeps{
		Logger: log.Named("admin"),
		Admins: s.deps.Admins,
		URLs:   s.deps.URLs,
		Tags:   s.deps.Tags,
		Stats:  s.deps.Stats,
		Clicks: s.deps.ClickCounter,
		Tokens: tokens,
	}).Register(admin)
}

// errorHandler renders errors that escaped the handlers, such as unmatched routes.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
			return c.Status(code).JSON(fiber.Map{"error": "internal server error"})
		}
		return c.Status(code).JSON(fiber.Map{"error": fe.Message})
	}
}
