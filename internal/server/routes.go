package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/repository"
)

// 店頭の handler
type Handlers struct {
	Catalog   *handler.CatalogHandler
	Session   *handler.SessionHandler
	Checkout  *handler.CheckoutHandler
	Concierge *handler.ConciergeHandler
}

// 管理画面の handler。DB未設定なら nil
type AdminHandlers struct {
	Auth     *handler.AdminAuthHandler
	Products *handler.AdminProductHandler
	Bairros  *handler.AdminBairroHandler

	Tokens middleware.TokenParser
	Users  repository.AdminUserRepository
}

func RegisterRoutes(e *echo.Echo, h Handlers, admin *AdminHandlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	h.Catalog.RegisterRoutes(api)
	h.Session.RegisterRoutes(api)
	h.Checkout.RegisterRoutes(api)
	h.Concierge.RegisterRoutes(api)

	if admin == nil {
		return
	}
	g := api.Group("/admin")
	admin.Auth.RegisterRoutes(g, admin.Tokens, admin.Users)
	admin.Products.RegisterRoutes(g, admin.Tokens, admin.Users)
	admin.Bairros.RegisterRoutes(g, admin.Tokens, admin.Users)
}
