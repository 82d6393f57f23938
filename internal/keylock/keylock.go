package keylock

import "sync"

// KeyedMutex provides mutual exclusion per string key. The cart engine
// and the checkout orchestrator share one instance so all mutations of
// a given user's cart are serialized.
type KeyedMutex struct {
	mus sync.Map // key -> *sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *KeyedMutex) Lock(key string) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
