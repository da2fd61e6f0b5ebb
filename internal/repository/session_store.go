package repository

import (
	"context"

	"storefront/internal/domain/session"
)

// 買い物セッションの保存先（memory / redis）
type SessionStore interface {
	//見つからない・期限切れは ErrNotFound
	Get(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Delete(ctx context.Context, id string) error
}

// カタログ変更の通知。受け取った側は全件取り直す
type CatalogNotifier interface {
	Publish(ctx context.Context) error
	//ctxが終わるとチャネルは閉じる
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
