// Package identity defines the boundary to the external identity provider.
// The service never handles credentials; it only verifies bearer tokens the
// provider issued and broadcasts session changes to interested subscribers.
package identity

import (
	"context"
	"sync"
)

// Session is the authenticated caller as reported by the identity provider.
type Session struct {
	UserID uint
	Email  string
}

// Provider verifies a bearer token and returns the session it encodes.
type Provider interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// Handler receives session-change notifications. A nil session means
// signed out.
type Handler func(*Session)

// Broker fans session changes out to subscribers. Delivery is at-least-once
// and a new subscriber immediately receives the current state, mirroring the
// provider's own auth-state callback contract.
type Broker struct {
	mu       sync.Mutex
	current  *Session
	handlers []Handler
}

// NewBroker returns an empty broker with no active session.
func NewBroker() *Broker {
	return &Broker{}
}

// OnIdentityChange registers a handler and immediately replays the current
// session state to it.
func (b *Broker) OnIdentityChange(h Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	current := b.current
	b.mu.Unlock()

	h(current)
}

// Publish records the new session state and notifies every subscriber.
func (b *Broker) Publish(s *Session) {
	b.mu.Lock()
	b.current = s
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(s)
	}
}

// Current returns the last published session, or nil when signed out.
func (b *Broker) Current() *Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
