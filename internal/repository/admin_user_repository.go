package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 管理ユーザーの保存・取得を約束
type AdminUserRepository interface {
	Create(ctx context.Context, u *model.AdminUser) error
	//見つからなければ ErrNotFound
	FindByID(ctx context.Context, id int64) (model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (model.AdminUser, error)
	//最終ログイン日時だけ更新
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, id int64) error
}
