package reconcile

import "sync"

// Ledger is a connection-scoped set of notification ids already held by a
// client. The snapshot fetch and the live subscription race on session start;
// a notification created in that window can arrive through both paths, and
// the ledger is how the second copy gets dropped. Its lifetime is one
// connection: Reset on reconnect.
type Ledger struct {
	mu   sync.Mutex
	seen map[int64]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[int64]struct{})}
}

// Prime records the ids from the snapshot fetch.
func (l *Ledger) Prime(ids []int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.seen[id] = struct{}{}
	}
}

// Observe reports whether the id is new, recording it either way. A false
// return means the caller already holds this notification and must drop it.
func (l *Ledger) Observe(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	return true
}

func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = make(map[int64]struct{})
}
