package objgraph

import "sync"

// reentrantLock is held by one resolution at a time. The holder can lock it again, and so
// can a resolution started from the holder, a provider called by a constructor the holder
// is running. Those nested holders stack: while one of them holds the lock, its siblings
// wait, which keeps constructions exclusive when a constructor calls its providers from
// several goroutines.
type reentrantLock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	holders []*resolution
}

func newReentrantLock() *reentrantLock {
	l := &reentrantLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *reentrantLock) Lock(owner *resolution) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.holders) > 0 && !owner.startedFrom(l.holders[len(l.holders)-1]) {
		l.cond.Wait()
	}
	l.holders = append(l.holders, owner)
}

func (l *reentrantLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.holders) == 0 {
		panic("objgraph: unlock of unlocked reentrant lock")
	}
	l.holders = l.holders[:len(l.holders)-1]
	l.cond.Broadcast()
}
