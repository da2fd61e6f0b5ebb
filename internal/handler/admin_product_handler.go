package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// 未指定の項目はnil
type ProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Tags        []string         `json:"tags"`
	Category    *string          `json:"category"`
	Available   *bool            `json:"available"`
}

type ToggleProductRequest struct {
	Available *bool `json:"available"`
}

type ReorderProductsRequest struct {
	IDs []string `json:"ids"`
}

// /api/admin/products
type AdminProductHandler struct {
	uc *usecase.AdminProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.AdminProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group, parser middleware.TokenParser, users repository.AdminUserRepository) {
	g := admin.Group("/products", adminGuards(parser, users)...)

	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/order", h.reorder)
	g.PATCH("/:id", h.update)
	g.POST("/:id/toggle", h.toggle)
}

func (h *AdminProductHandler) list(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminProductHandler) toggle(c echo.Context) error {
	var req ToggleProductRequest
	if err := c.Bind(&req); err != nil || req.Available == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "available required"})
	}

	res, err := h.uc.Toggle(c.Request().Context(), c.Param("id"), *req.Available)
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminProductHandler) reorder(c echo.Context) error {
	var req ReorderProductsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Reorder(c.Request().Context(), req.IDs)
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (r ProductRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Tags:        r.Tags,
		Category:    r.Category,
		Available:   r.Available,
	}
}
