package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/view"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HomeHandler struct {
	db  Pinger
	log logger.Logger
}

func NewHomeHandler(db Pinger, log logger.Logger) *HomeHandler {
	return &HomeHandler{db: db, log: log}
}

// Error renders the generic error page.
// GET /home/error
func (h *HomeHandler) Error(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageError, view.Page{
		Title: "Error",
		Content: view.ErrorContent{
			RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		},
	})
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Healthz is the unauthenticated liveness probe.
func (h *HomeHandler) Healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn("health check failed", logger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: "down"})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Database: "up"})
}
