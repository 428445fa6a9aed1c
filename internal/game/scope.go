package game

import (
	"errors"
	"fmt"
)

// ErrInvalidScope rejects an outbound write whose client scope does
// not resolve to a live player. Emitting data without a resolvable
// observer would bypass visibility filtering, so the write fails
// whole, before any field is produced.
var ErrInvalidScope = errors.New("invalid write scope")

// WriteScope directs visibility filtering for outbound serialization.
// The zero value is the unfiltered server scope.
type WriteScope struct {
	client   bool
	observer *Player
}

// ToServer returns the unfiltered scope used for server-side writes.
func ToServer() WriteScope {
	return WriteScope{}
}

// ToClient returns a scope filtered for what observer may see.
func ToClient(observer *Player) WriteScope {
	return WriteScope{client: true, observer: observer}
}

// ScopeFor derives a scope from an optional observer: the server
// scope when observer is nil, else that player's client scope.
func ScopeFor(observer *Player) WriteScope {
	if observer == nil {
		return ToServer()
	}
	return ToClient(observer)
}

// IsServer reports whether this is the unfiltered server scope.
func (s WriteScope) IsServer() bool { return !s.client }

// Observer returns the observing player for a client scope, nil for
// the server scope.
func (s WriteScope) Observer() *Player { return s.observer }

// SeesOwn reports whether owner-private fields of the given player's
// objects are visible under this scope: the server sees everything, a
// client only what its own observer owns.
func (s WriteScope) SeesOwn(owner *Player) bool {
	if !s.client {
		return true
	}
	return s.observer != nil && owner != nil && s.observer.ID() == owner.ID()
}

// Validate checks the scope against the live game. A client scope
// must carry an observer that resolves in the game's object table.
func (s WriteScope) Validate(g *Game) error {
	if !s.client {
		return nil
	}
	if s.observer == nil {
		return fmt.Errorf("%w: no observer", ErrInvalidScope)
	}
	if g == nil || g.Lookup(s.observer.ID()) == nil {
		return fmt.Errorf("%w: observer %s does not resolve", ErrInvalidScope, s.observer.ID())
	}
	return nil
}

func (s WriteScope) String() string {
	if !s.client {
		return "server"
	}
	if s.observer == nil {
		return "client(?)"
	}
	return fmt.Sprintf("client(%s)", s.observer.ID())
}
