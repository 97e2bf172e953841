package controller

import (
	"net/http"
	"strconv"

	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
	}
}

// エラーレスポンスの形式
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (h *CatalogHandler) GetItems(c echo.Context) error {
	items, err := h.catalogUsecase.GetAllItems(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to retrieve items",
		})
	}

	return c.JSON(http.StatusOK, items)
}

// GetItem は1件のカタログアイテムを返す
// GET /api/catalog/items/{id}
func (h *CatalogHandler) GetItem(c echo.Context) error {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid item ID",
		})
	}

	item, err := h.catalogUsecase.GetItemByID(c.Request().Context(), id)
	if err != nil {
		if domainErrors.IsValidationError(err) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid item ID",
				Details: []string{err.Error()},
			})
		}
		if domainErrors.IsNotFoundError(err) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "item not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to retrieve item",
		})
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) GetBrands(c echo.Context) error {
	brands, err := h.catalogUsecase.GetAllBrands(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to retrieve brands",
		})
	}

	return c.JSON(http.StatusOK, brands)
}

func (h *CatalogHandler) GetTypes(c echo.Context) error {
	types, err := h.catalogUsecase.GetAllTypes(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to retrieve types",
		})
	}

	return c.JSON(http.StatusOK, types)
}
