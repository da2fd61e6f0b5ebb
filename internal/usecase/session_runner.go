package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"storefront/internal/domain/session"
	repo "storefront/internal/repository"
)

// SessionRunnerはセッションごとに1人ずつ書き込ませる
type SessionRunner struct {
	store repo.SessionStore
	clock Clock

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// 待っている人がいなくなったら消す
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionRunner(store repo.SessionStore, clock Clock) *SessionRunner {
	return &SessionRunner{store: store, clock: clock, locks: make(map[string]*sessionLock)}
}

func (r *SessionRunner) lock(id string) func() {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sessionLock{}
		r.locks[id] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, id)
		}
		r.mu.Unlock()
	}
}

// Updateは 取得→保留遷移の確定→fn→保存 をロック内で行う。
// 遅延0の遷移もfnの後に確定させる。
// fnがエラーを返しても確定した遷移は保存する
func (r *SessionRunner) Update(ctx context.Context, id string, fn func(s *session.Session) error) (session.Session, error) {
	unlock := r.lock(id)
	defer unlock()

	s, err := r.store.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return session.Session{}, NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err != nil {
		return session.Session{}, NewHTTPError(http.StatusInternalServerError, "session store error")
	}

	now := r.clock.Now()
	s.Settle(now)

	var fnErr error
	if fn != nil {
		fnErr = fn(&s)
		s.Settle(now)
	}
	s.UpdatedAt = now

	if err := r.store.Save(ctx, s); err != nil {
		return session.Session{}, NewHTTPError(http.StatusInternalServerError, "session store error")
	}
	return s, fnErr
}

func (r *SessionRunner) Load(ctx context.Context, id string) (session.Session, error) {
	return r.Update(ctx, id, nil)
}

// Deleteはセッションを消す。無くてもエラーにしない
func (r *SessionRunner) Delete(ctx context.Context, id string) error {
	unlock := r.lock(id)
	defer unlock()

	if err := r.store.Delete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session store error")
	}
	return nil
}

func (r *SessionRunner) Create(ctx context.Context, s session.Session) error {
	if err := r.store.Save(ctx, s); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session store error")
	}
	return nil
}
