package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS handles cross origin requests. A nil pattern admits every origin with a
// wildcard; otherwise only matching origins are echoed back. Credentials are
// never allowed.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			switch {
			case pattern == nil:
				respHeader.Set(echo.HeaderAccessControlAllowOrigin, "*")
			case origin != "" && pattern.MatchString(origin):
				respHeader.Add(echo.HeaderVary, echo.HeaderOrigin)
				respHeader.Set(echo.HeaderAccessControlAllowOrigin, origin)
			default:
				respHeader.Add(echo.HeaderVary, echo.HeaderOrigin)
				return next(c)
			}

			if c.Request().Method == http.MethodOptions {
				respHeader.Set(echo.HeaderAccessControlAllowHeaders, "*")
				respHeader.Set(echo.HeaderAccessControlAllowMethods, "GET, HEAD, OPTIONS")
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
