package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

// /api/sessions のHTTP（カート・画面・チェックアウト入力）
type SessionHandler struct {
	uc *usecase.ShopUsecase
}

// DI
func NewSessionHandler(uc *usecase.ShopUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

type ViewEventRequest struct {
	Event string `json:"event"`
}

type DetailsRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Bairro  string `json:"bairro"`
	Notes   string `json:"notes"`
	Payment string `json:"payment"`
}

func (h *SessionHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/sessions")

	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.end)

	g.POST("/:id/cart/items", h.addItem)
	g.PATCH("/:id/cart/items/:pid", h.updateQuantity)
	g.PUT("/:id/cart/items/:pid/notes", h.updateNotes)

	g.POST("/:id/view", h.fireView)

	g.POST("/:id/checkout/next", h.checkoutNext)
	g.POST("/:id/checkout/back", h.checkoutBack)
	g.PUT("/:id/checkout/details", h.updateDetails)
}

func (h *SessionHandler) create(c echo.Context) error {
	out, err := h.uc.CreateSession(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SessionHandler) get(c echo.Context) error {
	out, err := h.uc.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) end(c echo.Context) error {
	if err := h.uc.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) addItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("id"), req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) updateQuantity(c echo.Context) error {
	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), c.Param("id"), c.Param("pid"), req.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) updateNotes(c echo.Context) error {
	var req UpdateNotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateNotes(c.Request().Context(), c.Param("id"), c.Param("pid"), req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) fireView(c echo.Context) error {
	var req ViewEventRequest
	if err := c.Bind(&req); err != nil || req.Event == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.FireView(c.Request().Context(), c.Param("id"), req.Event)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) checkoutNext(c echo.Context) error {
	out, err := h.uc.CheckoutNext(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) checkoutBack(c echo.Context) error {
	out, err := h.uc.CheckoutBack(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) updateDetails(c echo.Context) error {
	var req DetailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateDetails(c.Request().Context(), c.Param("id"), usecase.DetailsInput{
		Name:    req.Name,
		Address: req.Address,
		Bairro:  req.Bairro,
		Notes:   req.Notes,
		Payment: req.Payment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
