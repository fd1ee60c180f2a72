package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/models"
)

// StatusClientClosedRequest is reported when the caller went away first.
const StatusClientClosedRequest = 499

// ErrorHandler renders every handler error as a ResponseError envelope.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &ResponseError{
			Status:  http.StatusInternalServerError,
			Success: false,
			Err:     err,
		}

		var httpErr *echo.HTTPError
		var respErr *ResponseError
		switch {
		case errors.As(err, &respErr):
			resp = respErr
		case errors.As(err, &httpErr):
			resp.Status = httpErr.Code
			resp.ErrorMessage = fmt.Sprint(httpErr.Message)
		case errors.Is(err, models.ErrNotFound):
			resp.Status = http.StatusNotFound
			resp.ErrorMessage = err.Error()
		case errors.Is(err, context.Canceled) && errors.Is(c.Request().Context().Err(), context.Canceled):
			resp.Status = StatusClientClosedRequest
		}

		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not respond", "code", resp.Status, "error", err)
		}
	}
}
