package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// /api/admin/login, logout, session
type AdminAuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAdminAuthHandler(uc *usecase.AuthUsecase) *AdminAuthHandler {
	return &AdminAuthHandler{uc: uc}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// adminGuardsは管理APIの共通ミドルウェア（JWT→role→token_version）
func adminGuards(parser middleware.TokenParser, users repository.AdminUserRepository) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(parser),
		middleware.AdminRoleGuard(),
		middleware.TokenVersionGuard(users),
	}
}

func (h *AdminAuthHandler) RegisterRoutes(admin *echo.Group, parser middleware.TokenParser, users repository.AdminUserRepository) {
	admin.POST("/login", h.login)
	admin.GET("/session", h.session, middleware.OptionalAuth(parser))
	admin.POST("/logout", h.logout, adminGuards(parser, users)...)
}

func (h *AdminAuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// token_versionを上げるので他の端末のトークンも無効になる
func (h *AdminAuthHandler) logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.UserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

// 未ログインでも200で unauthenticated を返す
func (h *AdminAuthHandler) session(c echo.Context) error {
	out, err := h.uc.Session(c.Request().Context(), middleware.UserID(c), middleware.TokenVersion(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
