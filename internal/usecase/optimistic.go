package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	repo "storefront/internal/repository"
)

// Mutationは楽観的更新の1回分。
// Applyでローカルを先に変え、Commitが失敗したらRollbackで戻す
type Mutation struct {
	Name     string
	Apply    func()
	Commit   func(ctx context.Context) error
	Rollback func(ctx context.Context)
}

// RunOptimisticはMutationを実行する。再試行はしない
func RunOptimistic(ctx context.Context, log *zap.Logger, m Mutation) error {
	if m.Apply != nil {
		m.Apply()
	}
	err := m.Commit(ctx)
	if err == nil {
		return nil
	}

	log.Error("admin mutation failed, rolling back", zap.String("mutation", m.Name), zap.Error(err))
	if m.Rollback != nil {
		m.Rollback(ctx)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// MutationResultは変更後の管理一覧。
// 失敗時はRollback後の一覧が入る
type MutationResult[T any] struct {
	Item  *T  `json:"item,omitempty"`
	Items []T `json:"items"`
}

// listCacheは管理画面が見ている一覧のローカルコピー
type listCache[T any] struct {
	mu     sync.Mutex
	items  []T
	loaded bool
}

func (c *listCache[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *listCache[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *listCache[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
	c.loaded = true
}

// Updateはmatchした要素にfnを適用する。見つかればtrue
func (c *listCache[T]) Update(match func(T) bool, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

func (c *listCache[T]) Append(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, v)
}

func (c *listCache[T]) Remove(match func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items[:0]
	for _, v := range c.items {
		if !match(v) {
			out = append(out, v)
		}
	}
	c.items = out
}
