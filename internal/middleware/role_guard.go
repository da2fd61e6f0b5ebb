package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
)

// UserRoleはAuthJWTがcontextに積んだrole。無ければfalse
func UserRole(c echo.Context) (model.Role, bool) {
	raw, _ := c.Get(CtxUserRoleKey).(string)
	if raw == "" {
		return "", false
	}
	return model.Role(raw), true
}

// RequireRoleはallowedのどれかを持つトークンだけ通す。
// roleが積まれていなければ401、違うroleなら403
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	permitted := make(map[model.Role]bool, len(allowed))
	for _, r := range allowed {
		permitted[r] = true
	}
	denied := errorJSON(deniedMessage(allowed))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := UserRole(c)
			switch {
			case !ok:
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			case !permitted[role]:
				return c.JSON(http.StatusForbidden, denied)
			}
			return next(c)
		}
	}
}

// 例: ADMIN -> "admin only"
func deniedMessage(allowed []model.Role) string {
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		names = append(names, strings.ToLower(string(r)))
	}
	return strings.Join(names, " or ") + " only"
}

// 管理API用
func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin)
}
