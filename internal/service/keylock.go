package service

import "sync"

// keyedMutex serializes work per string key.
//
// WHY THIS EXISTS:
// Favorites mutations are whole-record read-modify-write cycles against a
// store with no transactions. Two concurrent Add/Remove calls for the same
// user could both read the same stale record and the second save would
// silently drop the first call's change. Locking per email turns each
// user's mutations into a single-writer queue while leaving different
// users fully concurrent.
//
// The lock table grows with the number of distinct keys seen and is never
// pruned; one mutex per active user is cheap at this system's scale.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the matching unlock func.
//
//	unlock := km.Lock(email)
//	defer unlock()
func (km *keyedMutex) Lock(key string) func() {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &sync.Mutex{}
		km.locks[key] = l
	}
	km.mu.Unlock()

	l.Lock()
	return l.Unlock
}
