package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock_SerializesSameKey(t *testing.T) {
	k := New()

	counter := 0
	var wg sync.WaitGroup
	const workers = 50
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := k.Lock("u1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestLock_IndependentKeysDoNotBlock(t *testing.T) {
	k := New()

	unlockA := k.Lock("a")
	defer unlockA()

	// Lock on a different key must not block while "a" is held.
	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
}

func TestLock_ReusableAfterUnlock(t *testing.T) {
	k := New()

	unlock := k.Lock("u1")
	unlock()
	unlock = k.Lock("u1")
	unlock()
}
