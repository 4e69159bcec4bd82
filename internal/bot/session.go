// Package bot implements the conversation core: the per-user session state
// machine that drives onboarding, and the dispatcher that routes an active
// user's messages to ledger operations, reports, and oracle calls.
package bot

import "sync"

// State is a user's conversational phase.
type State int

// The session lifecycle. There are no backward transitions: once a user is
// Active all further messages go through the dispatcher.
const (
	StateNew State = iota
	StateAwaitingName
	StateAwaitingBudget
	StateActive
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAwaitingName:
		return "awaiting_name"
	case StateAwaitingBudget:
		return "awaiting_budget"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// sessionTable tracks each user's conversational phase. It is the single
// source of truth for session state; the profile's OnboardingComplete flag
// is kept consistent with it at every transition.
type sessionTable struct {
	states map[string]State
	mu     sync.RWMutex
}

func newSessionTable() *sessionTable {
	return &sessionTable{states: make(map[string]State)}
}

// get returns the tracked state for a user, or StateNew when the user has
// never been seen.
func (t *sessionTable) get(userKey string) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.states[userKey]
}

func (t *sessionTable) set(userKey string, state State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[userKey] = state
}
