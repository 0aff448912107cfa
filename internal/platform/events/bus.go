// Package events provides the in-process subscription mechanism the studio
// store uses to react to identity and selection changes. Dependent fetches
// are issued explicitly by subscribers instead of through implicit state
// observation, which keeps the superseded-request rule enforceable.
package events

import "sync"

// IdentityChanged is published by the session store on every transition in
// or out of the authenticated state.
type IdentityChanged struct {
	Present bool
	AdminID string
}

// SelectionChanged is published by the studio store whenever the selected
// studio changes. An empty StudioID means the selection was cleared.
type SelectionChanged struct {
	StudioID string
}

// Bus dispatches events synchronously on the publisher's goroutine.
// Subscriber order is unspecified. Subscribers that need to do I/O should
// hand off to their own goroutine.
type Bus struct {
	mu            sync.RWMutex
	identitySubs  []func(IdentityChanged)
	selectionSubs []func(SelectionChanged)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeIdentity registers a callback for identity transitions.
func (b *Bus) SubscribeIdentity(fn func(IdentityChanged)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identitySubs = append(b.identitySubs, fn)
}

// SubscribeSelection registers a callback for studio selection changes.
func (b *Bus) SubscribeSelection(fn func(SelectionChanged)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectionSubs = append(b.selectionSubs, fn)
}

// PublishIdentity delivers an identity transition to all subscribers.
func (b *Bus) PublishIdentity(e IdentityChanged) {
	b.mu.RLock()
	subs := make([]func(IdentityChanged), len(b.identitySubs))
	copy(subs, b.identitySubs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// PublishSelection delivers a selection change to all subscribers.
func (b *Bus) PublishSelection(e SelectionChanged) {
	b.mu.RLock()
	subs := make([]func(SelectionChanged), len(b.selectionSubs))
	copy(subs, b.selectionSubs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
