package chat

import (
	"sync"
	"time"
)

// Default admission parameters: a connection may send RateLimit messages in
// any trailing RateWindow.
const (
	RateLimit  = 30
	RateWindow = 60 * time.Second
)

// Limiter is an in-memory sliding-window rate limiter keyed by connection
// id. Each connection has its own window record with its own lock, so a
// check never contends with other connections or with room state.
type Limiter struct {
	mu    sync.RWMutex
	conns map[string]*window

	limit  int
	period time.Duration
	now    func() time.Time
}

type window struct {
	mu     sync.Mutex
	stamps []time.Time
}

// NewLimiter builds a limiter admitting limit events per trailing period.
func NewLimiter(limit int, period time.Duration) *Limiter {
	return &Limiter{
		conns:  make(map[string]*window),
		limit:  limit,
		period: period,
		now:    time.Now,
	}
}

// Allow records one attempt for the connection and reports whether it is
// within the window. Expired timestamps are pruned lazily on each check, so
// a record never grows past the cap.
func (l *Limiter) Allow(connID string) bool {
	l.mu.RLock()
	w := l.conns[connID]
	l.mu.RUnlock()

	if w == nil {
		l.mu.Lock()
		w = l.conns[connID]
		if w == nil {
			w = &window{}
			l.conns[connID] = w
		}
		l.mu.Unlock()
	}

	now := l.now()
	cutoff := now.Add(-l.period)

	w.mu.Lock()
	defer w.mu.Unlock()

	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	if len(w.stamps) >= l.limit {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}

// Forget drops the window for a disconnected connection.
func (l *Limiter) Forget(connID string) {
	l.mu.Lock()
	delete(l.conns, connID)
	l.mu.Unlock()
}
