// Package http is the reference backend: an echo server exposing every CMS
// resource under /api/v1 with the envelope, auth and multipart rules the
// resource client expects.
package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/domain"
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/http/handler"
	"lawfirm-cms/internal/http/middleware"
	"lawfirm-cms/internal/notify"
	"lawfirm-cms/internal/resource"
	"lawfirm-cms/internal/storage/memory"
	"lawfirm-cms/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const (
	jsonKeyStatus   = "status"
	statusOK        = "ok"
	apiPrefix       = "/api/v1"
	auditPath       = "/audit"
	debugPrefix     = "/debug"
	bodyLimitMargin = 1 << 20
)

type ServerDependencies struct {
	Config     *config.Config
	Documents  handler.DocumentStore
	Users      handler.UserRepository
	Images     handler.ImageStore
	Hasher     handler.PasswordHasher
	JWTService *auth.JWTService
	Logger     logrus.FieldLogger
	// Uploads serves stored images when they live in process memory.
	Uploads echo.HandlerFunc
	// Audit defaults to an in-memory activity log.
	Audit *audit.Logger
	// Notifier, when set, emails the firm about site inquiries.
	Notifier *notify.Notifier
	// Schemas defaults to every CMS resource.
	Schemas []schema.Schema
}

type Server struct {
	echo    *echo.Echo
	deps    *ServerDependencies
	metrics *middleware.Metrics
	audit   *audit.Logger
}

func NewServer(deps *ServerDependencies) *Server {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	schemas := deps.Schemas
	if schemas == nil {
		schemas = domain.Schemas()
	}
	auditLog := deps.Audit
	if auditLog == nil {
		auditLog = audit.NewLogger(audit.NewMemoryStore(cfg.App.AuditCapacity), log)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	metrics := middleware.NewMetrics()

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.SecurityHeaders())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{stdhttp.MethodGet, stdhttp.MethodPost, stdhttp.MethodPut, stdhttp.MethodPatch, stdhttp.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(cfg.App.MaxUploadSize)))
	e.Use(metrics.Middleware())

	e.GET("/health", healthCheck)
	e.GET("/metrics", metrics.Handler())
	if deps.Uploads != nil {
		e.GET(memory.RoutePrefix+"*", deps.Uploads)
	}
	if cfg.App.EnableProfiling {
		profiling.Register(e.Group(debugPrefix))
	}

	authMiddleware := auth.NewMiddleware(deps.JWTService)
	requireJWT := authMiddleware.RequireJWT()
	limiter := middleware.NewRateLimiter(cfg.App.RateLimitRPS, cfg.App.RateLimitBurst)
	authLimiter := middleware.NewRateLimiter(cfg.App.AuthRateLimitRPS, cfg.App.AuthRateLimitBurst)

	authHandler := handler.NewAuthHandler(deps.Users, deps.Hasher, deps.JWTService, cfg.App.SignupEnabled).WithAudit(auditLog)
	resourceHandler := handler.NewResourceHandler(deps.Documents, deps.Images, cfg.App.MaxUploadSize, metrics).WithAudit(auditLog)
	if deps.Notifier != nil {
		resourceHandler.WithNotifier(deps.Notifier)
	}
	auditHandler := handler.NewAuditHandler(auditLog)

	api := e.Group(apiPrefix, authMiddleware.OptionalJWT(), limiter.Middleware())

	users := api.Group("/user", authLimiter.Middleware())
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)

	api.GET(auditPath, auditHandler.List, requireJWT)

	for _, s := range schemas {
		var read, create []echo.MiddlewareFunc
		if s.Binding.ReadAccess == resource.AccessRequired {
			read = append(read, requireJWT)
		}
		if !s.PublicCreate {
			create = append(create, requireJWT)
		}

		g := api.Group("/" + s.Path())
		g.GET("", resourceHandler.List(s), read...)
		g.GET("/:id", resourceHandler.Get(s), read...)
		g.POST("", resourceHandler.Create(s), create...)
		g.PUT("/:id", resourceHandler.Update(s), requireJWT)
		g.PATCH("/:id", resourceHandler.Update(s), requireJWT)
		g.DELETE("/:id", resourceHandler.Delete(s), requireJWT)
	}

	return &Server{
		echo:    e,
		deps:    deps,
		metrics: metrics,
		audit:   auditLog,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown stops accepting requests, then waits for pending activity log
// writes and inquiry emails.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.audit.Wait()
	if s.deps.Notifier != nil {
		s.deps.Notifier.Wait()
	}
	return err
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}

// bodyLimit leaves room for the form fields sent next to a maximal image.
func bodyLimit(maxUpload int64) string {
	return fmt.Sprintf("%dK", (maxUpload+bodyLimitMargin)/1024)
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetRequestID(c),
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			}).Info("request")
			return nil
		},
	})
}
