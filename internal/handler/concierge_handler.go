package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type ConciergeHandler struct {
	uc *usecase.ConciergeUsecase
}

// DI
func NewConciergeHandler(uc *usecase.ConciergeUsecase) *ConciergeHandler {
	return &ConciergeHandler{uc: uc}
}

type ConciergeRequest struct {
	Query string `json:"query"`
}

func (h *ConciergeHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/sessions/:id/concierge", h.ask)
	api.GET("/sessions/:id/concierge", h.latest)
}

func (h *ConciergeHandler) ask(c echo.Context) error {
	var req ConciergeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Ask(c.Request().Context(), c.Param("id"), req.Query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ConciergeHandler) latest(c echo.Context) error {
	out, err := h.uc.Latest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
