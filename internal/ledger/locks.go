package ledger

import "sync"

// pairLocker serializes mutations per wallet id. Locking a pair always
// acquires the lower id first so two opposing transfers can never deadlock.
type pairLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocker() *pairLocker {
	return &pairLocker{locks: make(map[string]*sync.Mutex)}
}

func (p *pairLocker) lockFor(id string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[id] = l
	}
	return l
}

// LockPair acquires exclusive access to both wallet ids in canonical order
// and returns the matching unlock function.
func (p *pairLocker) LockPair(a, b string) func() {
	if a == b {
		l := p.lockFor(a)
		l.Lock()
		return l.Unlock
	}

	first, second := a, b
	if second < first {
		first, second = second, first
	}

	fl := p.lockFor(first)
	sl := p.lockFor(second)

	fl.Lock()
	sl.Lock()
	return func() {
		sl.Unlock()
		fl.Unlock()
	}
}
