package study

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyLock serializes read-modify-write sequences per key. Keys hash onto a
// fixed set of mutexes, so unrelated keys occasionally share a stripe.
type keyLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *keyLock) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.stripes[h.Sum32()%lockStripes]
}

// Lock locks key and returns the matching unlock function.
func (l *keyLock) Lock(key string) func() {
	m := l.stripe(key)
	m.Lock()
	return m.Unlock
}
