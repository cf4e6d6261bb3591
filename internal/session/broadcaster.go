// Package session carries the forced-logout signal from the HTTP client to
// whatever owns the user-facing reaction. The client never navigates or exits
// on its own; it only broadcasts.
package session

import (
	"sync"
	"time"
)

// Reason explains why the session ended.
type Reason string

const (
	// ReasonTokenExpired means the access token expired and could not be
	// refreshed (missing, rejected, or unreachable refresh token).
	ReasonTokenExpired Reason = "token-expired"
)

// Broadcaster fans a forced-logout signal out to subscribers. The signal fires
// at most once per armed session; Reset re-arms after a fresh login. When no
// subscriber receives the signal, the fallback handler runs after a grace
// window so the logout is never silently lost.
type Broadcaster struct {
	mu       sync.Mutex
	subs     []chan Reason
	fired    bool
	grace    time.Duration
	fallback func(Reason)
}

func NewBroadcaster(grace time.Duration, fallback func(Reason)) *Broadcaster {
	return &Broadcaster{
		grace:    grace,
		fallback: fallback,
	}
}

// Subscribe returns a channel that receives the logout reason. The channel is
// buffered so Notify never blocks on a slow consumer.
func (b *Broadcaster) Subscribe() <-chan Reason {
	ch := make(chan Reason, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Notify broadcasts the reason to all subscribers. It reports whether the
// signal fired; repeated calls before Reset are no-ops, so concurrent failure
// paths produce exactly one signal.
func (b *Broadcaster) Notify(reason Reason) bool {
	b.mu.Lock()
	if b.fired {
		b.mu.Unlock()
		return false
	}
	b.fired = true
	subs := make([]chan Reason, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	delivered := false
	for _, ch := range subs {
		select {
		case ch <- reason:
			delivered = true
		default:
		}
	}

	if !delivered && b.fallback != nil {
		time.AfterFunc(b.grace, func() {
			b.fallback(reason)
		})
	}
	return true
}

// Reset re-arms the broadcaster after a successful login.
func (b *Broadcaster) Reset() {
	b.mu.Lock()
	b.fired = false
	b.mu.Unlock()
}
