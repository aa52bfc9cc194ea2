package auth

import "github.com/electro-atlas/storefront/internal/domain"

// State is the authentication verdict for a session.
type State int

const (
	// StateUnknown means no verdict yet; nothing that needs a verdict may run.
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

type Session struct {
	State State
	User  *domain.User
	Token string
}

func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated
}

// Loading reports that the verdict is still pending.
func (s Session) Loading() bool {
	return s.State == StateUnknown
}

// UserID returns the signed-in user's id, or "" for guests.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

func Anonymous() Session {
	return Session{State: StateUnauthenticated}
}
