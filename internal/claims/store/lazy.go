package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"zkqrc/internal/claims/models"
)

// ConnectFunc establishes the underlying store connection.
type ConnectFunc func(ctx context.Context) (HolderStore, error)

// Lazy defers store connection until first use. Concurrent first callers
// converge on a single in-flight connect; the established store is then
// reused for the process lifetime. A failed connect is surfaced to every
// waiter and retried on the next call.
type Lazy struct {
	connect ConnectFunc

	group singleflight.Group
	mu    sync.RWMutex
	store HolderStore
}

// NewLazy wraps a connect function with connect-once semantics.
func NewLazy(connect ConnectFunc) *Lazy {
	return &Lazy{connect: connect}
}

func (l *Lazy) get(ctx context.Context) (HolderStore, error) {
	l.mu.RLock()
	s := l.store
	l.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	connected, err, _ := l.group.Do("connect", func() (any, error) {
		l.mu.RLock()
		cached := l.store
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		s, err := l.connect(ctx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.store = s
		l.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return connected.(HolderStore), nil
}

// Identity retrieves a holder's identity record.
func (l *Lazy) Identity(ctx context.Context, holderID string) (*models.IdentityRecord, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Identity(ctx, holderID)
}

// MerkleRecord retrieves a holder's merkle commitment record.
func (l *Lazy) MerkleRecord(ctx context.Context, holderID string) (*models.MerkleRecord, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.MerkleRecord(ctx, holderID)
}

// Health reports the health of the underlying store, connecting if needed.
func (l *Lazy) Health(ctx context.Context) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Health(ctx)
}
