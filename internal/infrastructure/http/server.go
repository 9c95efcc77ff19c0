package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	handlers "github.com/harryfittheorem/CKOWebsite/internal/adapter/handler/http"
	"github.com/harryfittheorem/CKOWebsite/internal/config"
	"github.com/harryfittheorem/CKOWebsite/internal/middleware/auth"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	pkglogger "github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Headers the checkout page sends on its preflight requests
var corsAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// Usecases are the application services exposed over HTTP
type Usecases struct {
	Checkout usecase.CheckoutUsecase
	Admin    usecase.AdminUsecase
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
}

func NewServer(cfg *config.Config, logger *zap.Logger, usecases Usecases) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.HTTP.WriteTimeout

	pkglogger.WithEchoLogger(e, logger)

	// Preflight never reaches a handler
	e.Pre(preflight)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(pkglogger.NewEchoRequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: corsAllowHeaders,
	}))

	s := &Server{
		config: cfg,
		logger: logger,
		echo:   e,
	}
	s.setupRoutes(usecases)

	return s
}

// Handler exposes the router, for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes(usecases Usecases) {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	customerHandler := handlers.NewCustomerHandler(usecases.Checkout, s.logger)
	chargeHandler := handlers.NewChargeHandler(usecases.Checkout, s.logger)
	adminHandler := handlers.NewAdminHandler(usecases.Admin, s.logger)

	v1 := s.echo.Group("/api/v1")

	// Public routes called by the checkout page
	v1.POST("/customers/resolve", customerHandler.Resolve)
	v1.POST("/customers/search", customerHandler.Search)
	v1.POST("/payments/charge", chargeHandler.Charge)

	// Support routes
	admin := v1.Group("/admin", auth.JWTMiddleware(auth.JWTConfig{
		Secret:       s.config.JWT.Secret,
		Logger:       s.logger,
		RequiredRole: s.config.JWT.AdminRole,
	}))
	admin.GET("/transactions/:id", adminHandler.GetTransaction)
	admin.GET("/transactions/:id/logs", adminHandler.ListTransactionLogs)
}

// preflight answers every OPTIONS request with 200, the CORS headers and
// no body
func preflight(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodOptions {
			return next(c)
		}
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		h.Set(echo.HeaderAccessControlAllowHeaders, strings.Join(corsAllowHeaders, ", "))
		return c.NoContent(http.StatusOK)
	}
}
