// Package gate tracks which caller identities are admitted to the
// generation features and which are awaiting an admin decision.
package gate

import (
	"errors"
	"sync"
)

// ErrUnknownPending is returned by Decide when the identity has no pending
// entry, typically a duplicate press of a decision control.
var ErrUnknownPending = errors.New("no pending approval for identity")

// Decision is the outcome of a Contact call.
type Decision int

const (
	PendingSubmitted Decision = iota
	AlreadyAuthorized
	AlreadyAdmin
)

// DecideResult carries what the admin side needs to render a confirmation
// and notify the decided identity.
type DecideResult struct {
	Target   int64
	Name     string
	Accepted bool
}

// Gate owns the pending and authorized identity sets. An identity is in at
// most one of the two at any time; authorization is permanent for the
// process lifetime.
type Gate struct {
	admin int64

	mu         sync.Mutex
	pending    map[int64]string
	authorized map[int64]struct{}
}

func New(admin int64) *Gate {
	return &Gate{
		admin:      admin,
		pending:    map[int64]string{},
		authorized: map[int64]struct{}{},
	}
}

// Contact records first contact from an identity. Unrecognized identities
// are inserted into the pending set, overwriting any stale entry for the
// same identity rather than duplicating it.
func (g *Gate) Contact(identity int64, displayName string) Decision {
	if identity == g.admin {
		return AlreadyAdmin
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.authorized[identity]; ok {
		return AlreadyAuthorized
	}
	g.pending[identity] = displayName
	return PendingSubmitted
}

// Decide resolves a pending entry. The removal and, on accept, the insert
// into the authorized set happen in one critical section so a concurrent
// duplicate decision fails with ErrUnknownPending instead of double-granting.
func (g *Gate) Decide(identity int64, accept bool) (DecideResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	name, ok := g.pending[identity]
	if !ok {
		return DecideResult{}, ErrUnknownPending
	}
	delete(g.pending, identity)
	if accept {
		g.authorized[identity] = struct{}{}
	}
	return DecideResult{Target: identity, Name: name, Accepted: accept}, nil
}

func (g *Gate) IsAuthorized(identity int64) bool {
	if identity == g.admin {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.authorized[identity]
	return ok
}

// Counts reports the current set sizes, for the ops endpoints.
func (g *Gate) Counts() (pending, authorized int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending), len(g.authorized)
}
