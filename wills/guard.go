package wills

import (
	"context"
	"sync"
)

// inOperationKey marks a context as belonging to an in-flight operation
// on one will.
type inOperationKey uint64

type lockManager struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newLockManager() *lockManager {
	return &lockManager{locks: make(map[uint64]*sync.Mutex)}
}

func (m *lockManager) lock(id uint64) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// guardOperation serializes every state-mutating operation on a will and
// rejects re-entrant calls made from within an asset transfer callback.
// The derived context carries the in-progress marker; the ledger sees it
// on every transfer call, so a lifecycle call issued from inside one
// fails fast instead of deadlocking. The returned release must run on
// every exit path.
func (s *Service) guardOperation(ctx context.Context, willID uint64) (context.Context, func(), error) {
	if ctx.Value(inOperationKey(willID)) != nil {
		return nil, nil, stateError(ErrOperationInProgress)
	}

	release := s.locks.lock(willID)
	ctx = context.WithValue(ctx, inOperationKey(willID), true)

	return ctx, release, nil
}
