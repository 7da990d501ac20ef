package http

import (
	"context"
	stdhttp "net/http"

	"marketplace-web/internal/audit"
	"marketplace-web/internal/auth"
	"marketplace-web/internal/config"
	"marketplace-web/internal/http/handler"
	"marketplace-web/internal/http/middleware"
	"marketplace-web/internal/rbac"
	"marketplace-web/internal/rbac/presets"
	"marketplace-web/internal/session"
	"marketplace-web/pkg/metrics"
	"marketplace-web/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyLimit = "1M"
	siteName         = "Marketplace"

	pathRobots  = "/robots.txt"
	pathHealth  = "/health"
	pathSignOut = "/api/auth/signout"
)

// nonPageRoutes are policy entries served by something other than the page
// shell.
var nonPageRoutes = map[string]bool{
	presets.PathMetrics: true,
	presets.PathDebug:   true,
}

type ServerDependencies struct {
	Config   *config.Config
	Checker  *rbac.Checker
	Resolver *session.Resolver
	Issuer   *session.Issuer
	Metrics  *metrics.Metrics
	Audit    *audit.Logger
	Logger   *zap.Logger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

// NewServer wires every route in the policy table behind the route guard,
// plus the crawler policy, health check, sign-out and metrics endpoints.
func NewServer(deps *ServerDependencies) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)
	e.Renderer = renderer

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	guard := auth.NewGuard(deps.Checker, deps.Resolver, deps.Metrics, logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders(deps.Config.Site.Secure()))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(deps.Metrics.Middleware())
	// The limiter keys signed-in visitors by user, so the session goes on
	// the context first.
	e.Use(guard.Attach())
	e.Use(middleware.NewGlobalRateLimiter().Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()

	pages := handler.NewPageHandler(siteName)
	sessions := handler.NewSessionHandler(deps.Issuer, deps.Resolver, deps.Audit, logger)

	for _, rule := range deps.Checker.Rules() {
		if nonPageRoutes[rule.Path] {
			continue
		}
		e.GET(rule.Path, pages.Page, guard.Require(rule.Path))
	}

	e.GET(pathRobots, handler.Robots(deps.Config.Site.BaseURL))
	e.GET(pathHealth, handler.Health)
	e.POST(pathSignOut, sessions.SignOut, strictRateLimiter.Middleware())
	e.GET(presets.PathMetrics, deps.Metrics.Handler, guard.Require(presets.PathMetrics))

	if deps.Config.Server.Profiling {
		profiling.Register(e.Group(presets.PathDebug, guard.Require(presets.PathDebug)))
		logger.Warn("profiling endpoints enabled", zap.String("prefix", presets.PathDebug))
	}

	return &Server{
		echo: e,
		deps: deps,
	}, nil
}

// ServeHTTP lets tests drive the full middleware stack.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
