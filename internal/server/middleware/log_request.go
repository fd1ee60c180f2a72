package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"go.uber.org/zap"
)

type LogRequestConfig struct {
	Logger      *zap.SugaredLogger
	Skipper     Skipper
	RequestID   func(c echo.Context) string
	QueryParams bool
	ParamValues bool
}

// LogRequest writes one line per request and stores a request scoped logger
// in the request context for handlers to pick up with logger.FromContext.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.RequestID == nil {
		config.RequestID = GetRequestID
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()
			reqID := config.RequestID(c)

			scoped := config.Logger
			if reqID != "" {
				scoped = scoped.With("request_id", reqID)
			}
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), scoped)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := make([]interface{}, 0, 16)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)
			if config.QueryParams {
				if query := c.QueryParams(); len(query) > 0 {
					args = append(args, "query", query)
				}
			}
			if config.ParamValues {
				params := make(map[string]string)
				for _, name := range c.ParamNames() {
					params[name] = c.Param(name)
				}
				if len(params) > 0 {
					args = append(args, "params", params)
				}
			}

			switch {
			case res.Status >= 500:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				scoped.Errorw("request", args...)
			case res.Status >= 400:
				scoped.Warnw("request", args...)
			default:
				scoped.Infow("request", args...)
			}

			return err
		}
	}
}
