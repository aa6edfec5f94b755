package application

import "sync"

// KeyLocker serializes work per key. Reconciliation and the vote ledger share
// one instance so that a card refresh never interleaves with a vote on the
// same card.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLocker creates an empty KeyLocker
func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free and returns the function that releases it
func (l *KeyLocker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited
func (l *KeyLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
