package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	"storefront/internal/infra/token"
	"storefront/internal/repository"
)

type fakeUsers struct {
	users map[int64]model.AdminUser
	err   error
}

func (f *fakeUsers) Create(ctx context.Context, u *model.AdminUser) error { panic("not used") }

func (f *fakeUsers) FindByID(ctx context.Context, id int64) (model.AdminUser, error) {
	if f.err != nil {
		return model.AdminUser{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return model.AdminUser{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	panic("not used")
}

func (f *fakeUsers) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	panic("not used")
}

func (f *fakeUsers) IncrementTokenVersion(ctx context.Context, id int64) error { panic("not used") }

func issue(t *testing.T, j *token.JWT, role model.Role, tv int) string {
	t.Helper()
	raw, _, err := j.Issue(7, role, tv, time.Now())
	require.NoError(t, err)
	return raw
}

// ガードを通ったらuser_idを返すだけのルート
func protected(j *token.JWT, users repository.AdminUserRepository) *echo.Echo {
	e := echo.New()
	g := e.Group("/admin", AuthJWT(j), AdminRoleGuard(), TokenVersionGuard(users))
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]int64{"user_id": UserID(c)})
	})
	return e
}

func doGet(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminChain(t *testing.T) {
	j := token.NewJWT("test_secret", time.Minute)
	users := &fakeUsers{users: map[int64]model.AdminUser{
		7: {ID: 7, Role: model.RoleAdmin, TokenVersion: 1, IsActive: true},
	}}
	e := protected(j, users)

	cases := []struct {
		name   string
		bearer string
		status int
	}{
		{"ok", issue(t, j, model.RoleAdmin, 1), http.StatusOK},
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "abc.def.ghi", http.StatusUnauthorized},
		{"wrong role", issue(t, j, model.Role("USER"), 1), http.StatusForbidden},
		{"stale version", issue(t, j, model.RoleAdmin, 0), http.StatusUnauthorized},
		{"other secret", issue(t, token.NewJWT("other", time.Minute), model.RoleAdmin, 1), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doGet(e, "/admin/me", tc.bearer)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	guarded := func(role any) *httptest.ResponseRecorder {
		e := echo.New()
		e.GET("/x", func(c echo.Context) error {
			r, _ := UserRole(c)
			return c.String(http.StatusOK, string(r))
		}, func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if role != nil {
					c.Set(CtxUserRoleKey, role)
				}
				return next(c)
			}
		}, AdminRoleGuard())
		return doGet(e, "/x", "")
	}

	rec := guarded("ADMIN")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", rec.Body.String())

	rec = guarded("USER")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"admin only"}`, rec.Body.String())

	for _, missing := range []any{nil, "", 42} {
		rec = guarded(missing)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "role=%v", missing)
	}
}

func TestRequireRole_DeniedMessage(t *testing.T) {
	assert.Equal(t, "admin only", deniedMessage([]model.Role{model.RoleAdmin}))
	assert.Equal(t, "admin or staff only", deniedMessage([]model.Role{model.RoleAdmin, "STAFF"}))
}

func TestTokenVersionGuard_InactiveAndDBError(t *testing.T) {
	j := token.NewJWT("test_secret", time.Minute)

	inactive := &fakeUsers{users: map[int64]model.AdminUser{
		7: {ID: 7, Role: model.RoleAdmin, TokenVersion: 1, IsActive: false},
	}}
	rec := doGet(protected(j, inactive), "/admin/me", issue(t, j, model.RoleAdmin, 1))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	broken := &fakeUsers{err: errors.New("conn refused")}
	rec = doGet(protected(j, broken), "/admin/me", issue(t, j, model.RoleAdmin, 1))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"db error"}`, rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	j := token.NewJWT("test_secret", time.Minute)
	e := echo.New()
	e.GET("/session", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]int64{"user_id": UserID(c), "tv": int64(TokenVersion(c))})
	}, OptionalAuth(j))

	rec := doGet(e, "/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0,"tv":0}`, rec.Body.String())

	rec = doGet(e, "/session", "broken")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0,"tv":0}`, rec.Body.String())

	rec = doGet(e, "/session", issue(t, j, model.RoleAdmin, 3))
	assert.JSONEq(t, `{"user_id":7,"tv":3}`, rec.Body.String())
}
