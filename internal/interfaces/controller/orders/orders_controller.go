package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/view"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/usecase"
)

// OrderHandler serves the order pages. Errors are returned as
// *echo.HTTPError so the error handler can render the error page.
type OrderHandler struct {
	orderUsecase usecase.OrderUsecase
}

func NewOrderHandler(orderUsecase usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
	}
}

// Index lists every order.
// GET /, /orders, /orders/index
func (h *OrderHandler) Index(c echo.Context) error {
	orders, err := h.orderUsecase.GetAllOrders(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "failed to retrieve orders")
	}

	return c.Render(http.StatusOK, view.PageOrdersIndex, view.Page{
		Title:   "Orders",
		Content: orders,
	})
}

// Details shows one order with its lines.
// GET /orders/details/{id}
func (h *OrderHandler) Details(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order ID")
	}

	order, err := h.orderUsecase.GetOrderByID(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err, "failed to retrieve order")
	}

	return c.Render(http.StatusOK, view.PageOrdersDetails, view.Page{
		Title:   fmt.Sprintf("Order %d", order.ID),
		Content: order,
	})
}

func toHTTPError(err error, message string) *echo.HTTPError {
	switch {
	case domainErrors.IsValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order ID")
	case domainErrors.IsNotFoundError(err):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, domainErrors.ErrUpstreamUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, message).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(err)
	}
}
