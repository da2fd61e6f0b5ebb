package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

// 注文の送信とQRコード
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/sessions/:id/checkout/submit", h.submit)
	api.GET("/sessions/:id/checkout/qrcode", h.qrcode)
}

// ?redirect=1 ならメッセージアプリへそのまま飛ばす
func (h *CheckoutHandler) submit(c echo.Context) error {
	out, err := h.uc.Submit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	if c.QueryParam("redirect") == "1" {
		return c.Redirect(http.StatusSeeOther, out.URL)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) qrcode(c echo.Context) error {
	png, err := h.uc.QRCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
