package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ログイン失敗時にフォームへそのまま出す文言
const MsgInvalidCredentials = "E-mail ou senha inválidos"

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

type AdminUserDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken  string       `json:"access_token"`
	ExpiresIn    int          `json:"expires_in"`
	TokenVersion int          `json:"token_version"`
	User         AdminUserDTO `json:"user"`
}

// loading はクライアント側だけの状態
type SessionState string

const (
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

type SessionStateOutput struct {
	State SessionState  `json:"state"`
	User  *AdminUserDTO `json:"user,omitempty"`
}

type AuthUsecase struct {
	users     repo.AdminUserRepository
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	validator AdminValidator
	clock     Clock
	log       *zap.Logger
}

// DI
func NewAuthUsecase(
	users repo.AdminUserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	validator AdminValidator,
	clock Clock,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		verifier:  verifier,
		issuer:    issuer,
		validator: validator,
		clock:     clock,
		log:       log,
	}
}

// Loginはメール/パスワードを照合してアクセストークンを返す。
// 理由を問わず失敗は同じ401
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(in.Email)
	if err := u.validator.ValidateLogin(email, in.Password); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
	}

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
	}
	if err != nil {
		u.log.Error("find admin user failed", zap.Error(err))
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//停止ユーザー・パスワード不一致
	if !user.IsActive || !u.verifier.Verify(in.Password, user.PasswordHash) {
		u.log.Info("admin login rejected", zap.String("email", email))
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//last_login更新（失敗してもログインは通す）
	if err := u.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		u.log.Warn("touch last login failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return LoginOutput{
		AccessToken:  token,
		ExpiresIn:    int(exp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
		User:         toAdminUserDTO(user),
	}, nil
}

// Logoutはtoken_versionを上げて発行済みトークンを全部無効にする
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// Sessionはトークンの持ち主がまだ有効かを返す。userID=0は未ログイン
func (u *AuthUsecase) Session(ctx context.Context, userID int64, tokenVersion int) (SessionStateOutput, error) {
	anon := SessionStateOutput{State: SessionUnauthenticated}
	if userID <= 0 {
		return anon, nil
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return anon, nil
	}
	if err != nil {
		return SessionStateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive || user.TokenVersion != tokenVersion {
		return anon, nil
	}

	dto := toAdminUserDTO(user)
	return SessionStateOutput{State: SessionAuthenticated, User: &dto}, nil
}

func toAdminUserDTO(u model.AdminUser) AdminUserDTO {
	return AdminUserDTO{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}
