// Package bootstrap decides, at cold start, whether the installation has
// a configured owner account and therefore whether the login or the
// one-time setup flow is reachable.
package bootstrap

import (
	"context"
	"sync"

	"github.com/postforge/identity/internal/client/api"
)

// State is the bootstrap state of the installation. Unknown is the
// first-class "not determined yet" state; it is never the result of a
// completed check.
type State int

const (
	StateUnknown State = iota
	StateUnconfigured
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	default:
		return "unknown"
	}
}

// Status is the outcome of a bootstrap check.
type Status struct {
	State   State
	Message string
}

const failureMessage = "Unable to check system status"

// Gate queries the identity service's status endpoint. A failed check
// reports StateUnconfigured: assuming bootstrap incomplete is the safe
// default, since failing open would let an attacker skip owner creation.
type Gate struct {
	client api.Client

	mu   sync.Mutex
	last State
}

func NewGate(client api.Client) *Gate {
	return &Gate{client: client, last: StateUnknown}
}

// CheckStatus re-derives the bootstrap state from the server. It does
// not retry; callers re-invoke on their next render if needed.
func (g *Gate) CheckStatus(ctx context.Context) Status {
	st, err := g.client.Status(ctx)
	if err != nil {
		g.setLast(StateUnconfigured)
		return Status{State: StateUnconfigured, Message: failureMessage}
	}

	state := StateUnconfigured
	if st.Configured {
		state = StateConfigured
	}
	g.setLast(state)
	return Status{State: state, Message: st.Message}
}

// State returns the result of the most recent check, or StateUnknown if
// none has completed yet.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// MarkConfigured records a successful setup without another status round
// trip. Setup cannot succeed twice, so the verdict is stable for the
// rest of this process.
func (g *Gate) MarkConfigured() {
	g.setLast(StateConfigured)
}

func (g *Gate) setLast(s State) {
	g.mu.Lock()
	g.last = s
	g.mu.Unlock()
}
