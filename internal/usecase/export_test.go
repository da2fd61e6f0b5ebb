package usecase

// 保持しているロックの数
func (r *SessionRunner) HeldLocks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
