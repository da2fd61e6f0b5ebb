package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront/internal/domain/session"
	repo "storefront/internal/repository"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStoreはプロセス内のセッション保存。
// 値はJSONで持つので呼び出し側と共有しない。
// 期限切れはSaveのときにttl間隔でまとめて消す
type MemorySessionStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (session.Session, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && s.expired(e, s.now()) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return session.Session{}, repo.ErrNotFound
	}
	var out session.Session
	if err := json.Unmarshal(e.data, &out); err != nil {
		return session.Session{}, err
	}
	return out, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)

	e := memoryEntry{data: data}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}
	s.entries[sess.ID] = e
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemorySessionStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Before(s.nextSweep) {
		return
	}
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}

func (s *MemorySessionStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
