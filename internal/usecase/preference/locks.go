package preference

import (
	"hash/fnv"
	"sync"
)

// userLocks serializes profile read-modify-write per user without a global
// lock: user IDs hash onto a fixed set of stripes, so concurrent updates for
// different users almost never contend.
type userLocks struct {
	stripes []sync.Mutex
}

func newUserLocks(n int) *userLocks {
	if n <= 0 {
		n = 64
	}
	return &userLocks{stripes: make([]sync.Mutex, n)}
}

// lock acquires the stripe for userID and returns its unlock func.
func (l *userLocks) lock(userID string) func() {
	h := fnv.New32a()
	h.Write([]byte(userID))
	m := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
