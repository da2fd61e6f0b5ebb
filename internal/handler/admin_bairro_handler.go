package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

type BairroRequest struct {
	Name   *string          `json:"name"`
	Fee    *decimal.Decimal `json:"fee"`
	Active *bool            `json:"active"`
}

type ToggleBairroRequest struct {
	Active *bool `json:"active"`
}

type ReorderBairrosRequest struct {
	IDs []int64 `json:"ids"`
}

// /api/admin/bairros
type AdminBairroHandler struct {
	uc *usecase.AdminBairroUsecase
}

// DI
func NewAdminBairroHandler(uc *usecase.AdminBairroUsecase) *AdminBairroHandler {
	return &AdminBairroHandler{uc: uc}
}

func (h *AdminBairroHandler) RegisterRoutes(admin *echo.Group, parser middleware.TokenParser, users repository.AdminUserRepository) {
	g := admin.Group("/bairros", adminGuards(parser, users)...)

	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/order", h.reorder)
	g.PATCH("/:id", h.update)
	g.POST("/:id/toggle", h.toggle)
}

func (h *AdminBairroHandler) list(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminBairroHandler) create(c echo.Context) error {
	var req BairroRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Create(c.Request().Context(), usecase.BairroInput{Name: req.Name, Fee: req.Fee, Active: req.Active})
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AdminBairroHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req BairroRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Update(c.Request().Context(), id, usecase.BairroInput{Name: req.Name, Fee: req.Fee, Active: req.Active})
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminBairroHandler) toggle(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ToggleBairroRequest
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "active required"})
	}

	res, err := h.uc.Toggle(c.Request().Context(), id, *req.Active)
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminBairroHandler) reorder(c echo.Context) error {
	var req ReorderBairrosRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Reorder(c.Request().Context(), req.IDs)
	if err != nil {
		return writeMutationError(c, err, res)
	}
	return c.JSON(http.StatusOK, res)
}
