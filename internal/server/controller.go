package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
)

type Controller interface {
	ListProducts(c echo.Context) error
	GetProduct(c echo.Context) error
	GetUserProfile(c echo.Context) error
	GetCartSummary(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	storeUsecase usecase.StoreUsecase
}

func NewHandler(storeUsecase usecase.StoreUsecase) Controller {
	return &controller{
		storeUsecase: storeUsecase,
	}
}

type getProductRequest struct {
	ID int `param:"id" validate:"required,gt=0"`
}

func (h *controller) ListProducts(c echo.Context) error {
	products, err := h.storeUsecase.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *controller) GetProduct(c echo.Context) error {
	var req getProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.storeUsecase.GetProduct(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *controller) GetUserProfile(c echo.Context) error {
	user, err := h.storeUsecase.GetUserProfile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *controller) GetCartSummary(c echo.Context) error {
	cart, err := h.storeUsecase.GetCartSummary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
