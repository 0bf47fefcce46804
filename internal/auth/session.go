package auth

import "errors"

// Route is a top-level screen
type Route int

const (
	RouteSignIn Route = iota
	RouteRegister
	RouteBoard
)

func (r Route) String() string {
	switch r {
	case RouteSignIn:
		return "signin"
	case RouteRegister:
		return "register"
	case RouteBoard:
		return "board"
	default:
		return "unknown"
	}
}

// Session is the ephemeral signed-in state. The zero value is signed out.
type Session struct {
	authenticated bool
	identity      string
}

// Login marks the session authenticated as identity
func (s *Session) Login(identity string) error {
	if identity == "" {
		return errors.New("login requires an identity")
	}
	s.authenticated = true
	s.identity = identity
	return nil
}

// Logout clears the session
func (s *Session) Logout() {
	s.authenticated = false
	s.identity = ""
}

// IsAuthenticated reports whether someone is signed in
func (s *Session) IsAuthenticated() bool {
	return s.authenticated
}

// Identity returns the signed-in email, or "" when signed out
func (s *Session) Identity() string {
	return s.identity
}

// Resolve maps a requested route to the one that may be shown. Signed-out
// sessions only reach sign-in and register; signed-in sessions skip them.
func (s *Session) Resolve(r Route) Route {
	if !s.authenticated {
		if r == RouteSignIn || r == RouteRegister {
			return r
		}
		return RouteSignIn
	}
	return RouteBoard
}
