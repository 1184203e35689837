package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Locker is a short-lived, non-reentrant, TTL-bounded advisory lock.
type Locker interface {
	// TryLock attempts acquisition once. It never blocks and never retries.
	TryLock(ctx context.Context, ttl time.Duration) (bool, error)

	// Unlock releases the lock if this instance still holds it. Safe to
	// call after the lock expired or was never acquired.
	Unlock(ctx context.Context) error
}

// Lock implements Locker over the store's set-if-absent primitive. The TTL
// bounds the blast radius of a crashed holder; release is ownership-checked
// so a late Unlock after expiry cannot delete another holder's lock.
type Lock struct {
	store  Store
	key    string
	holder string
}

// Mutex creates locks bound to a logical resource name.
type Mutex interface {
	NewLock(name string) Locker
}

type mutexFactory struct {
	store Store
}

func NewMutex(store Store) Mutex {
	return &mutexFactory{store: store}
}

func (f *mutexFactory) NewLock(name string) Locker {
	return &Lock{
		store:  f.store,
		key:    LockPrefix + name,
		holder: uuid.NewString(),
	}
}

func (l *Lock) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return l.store.SetNX(ctx, l.key, l.holder, ttl)
}

func (l *Lock) Unlock(ctx context.Context) error {
	_, err := l.store.CompareAndDelete(ctx, l.key, l.holder)
	return err
}
