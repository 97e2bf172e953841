package view

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

// NewHTTPErrorHandler logs server errors and, outside development, renders
// the error page for browser routes. API routes and development mode fall
// through to the default handler.
func NewHTTPErrorHandler(log logger.Logger, development bool, apiPrefix string, fallback echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				logger.String("method", c.Request().Method),
				logger.String("path", c.Request().URL.Path),
				logger.String("request_id", requestID),
				logger.Int("status", code),
				logger.Error(err),
			)
		}

		if development || strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
			fallback(err, c)
			return
		}

		page := Page{
			Title:   "Error",
			Content: ErrorContent{RequestID: requestID, StatusCode: code},
		}
		if renderErr := c.Render(code, PageError, page); renderErr != nil {
			fallback(err, c)
		}
	}
}
