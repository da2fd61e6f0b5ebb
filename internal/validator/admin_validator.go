package validator

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type adminValidator struct{}

// Usecaseは interface を依存注入
func NewAdminValidator() usecase.AdminValidator {
	return &adminValidator{}
}

// ログインの入力を検証
func (v *adminValidator) ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return invalid("email and password required")
	}
	// email形式
	if !emailRe.MatchString(email) {
		return invalid("invalid email")
	}
	return nil
}

// 商品。partialなら渡された項目だけ見る
func (v *adminValidator) ValidateProduct(in usecase.ProductInput, partial bool) error {
	if !partial {
		if in.Name == nil || in.Price == nil || in.Category == nil {
			return invalid("name, price and category required")
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name required")
	}
	if in.Name != nil && len(*in.Name) > 255 {
		return invalid("name too long")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return invalid("price must be >= 0")
	}
	if in.Category != nil && !model.Category(*in.Category).Valid() {
		return invalid("invalid category")
	}
	if in.Image != nil && *in.Image != "" && !isHTTPURL(*in.Image) {
		return invalid("image must be http(s) url")
	}
	for _, t := range in.Tags {
		if strings.TrimSpace(t) == "" {
			return invalid("empty tag")
		}
	}
	return nil
}

func (v *adminValidator) ValidateBairro(in usecase.BairroInput, partial bool) error {
	if !partial {
		if in.Name == nil || in.Fee == nil {
			return invalid("name and fee required")
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name required")
	}
	if in.Fee != nil && in.Fee.IsNegative() {
		return invalid("fee must be >= 0")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
