package bot

import "sync"

// keyedMutex serializes work per key. Two messages from the same user must
// never interleave their read-then-write handling, while messages from
// different users run fully in parallel.
type keyedMutex struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (m *keyedMutex) lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
