package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"github.com/nguyentranbao-ct/storefront/pkg/validator"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// newEcho builds an echo instance with the middleware chain shared by both
// servers.
func newEcho(conf *config.Config, log *zap.SugaredLogger) (*echo.Echo, error) {
	var origins *regexp.Regexp
	if conf.Server.CORSOriginPattern != "" {
		re, err := regexp.Compile(conf.Server.CORSOriginPattern)
		if err != nil {
			return nil, fmt.Errorf("compile cors origin pattern: %w", err)
		}
		origins = re
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(log)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: log,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics(conf.Server.MetricsNamespace))
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(pkgmdw.CORS(origins))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.FromContext(c.Request().Context(), log).Errorw("PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))

	if conf.Server.PprofEnabled {
		pkgmdw.PprofWrap(e)
	}
	return e, nil
}

func serve(lc fx.Lifecycle, sd fx.Shutdowner, e *echo.Echo, addr string, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "addr", addr)
				if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// StartServer runs the catalog API.
func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
) error {
	log := logger.MustNamed("http")
	e, err := newEcho(conf, log)
	if err != nil {
		return err
	}
	RegisterAPIRoutes(e, handler)
	serve(lc, sd, e, conf.Server.Addr, log)
	return nil
}

// StartStorefront runs the storefront UI.
func StartStorefront(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler StorefrontController,
) error {
	log := logger.MustNamed("storefront.http")
	e, err := newEcho(conf, log)
	if err != nil {
		return err
	}
	RegisterStorefrontRoutes(e, handler)
	serve(lc, sd, e, conf.Storefront.Addr, log)
	return nil
}

func RegisterAPIRoutes(e *echo.Echo, handler Controller) {
	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.GET("/products", handler.ListProducts)
	api.GET("/products/:id", handler.GetProduct)
	api.GET("/user/profile", handler.GetUserProfile)
	api.GET("/cart/summary", handler.GetCartSummary)
}

func RegisterStorefrontRoutes(e *echo.Echo, handler StorefrontController) {
	e.GET("/health", handler.Health)
	e.GET("/", handler.Index)
	e.GET("/frames", handler.Frames)
}
