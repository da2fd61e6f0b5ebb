package cache

import (
	"context"
	"sync"
)

// MemoryNotifierはプロセス内のブロードキャスト。
// 受信側が詰まっていたら通知はまとめる（全件取り直しなので1回で足りる）
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[chan struct{}]struct{})}
}

func (n *MemoryNotifier) Publish(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		close(ch)
		n.mu.Unlock()
	}()
	return ch, nil
}
