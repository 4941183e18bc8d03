// Package session resolves who is behind a request. A Session starts in
// loading and settles into authenticated or anonymous.
package session

import (
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

type State string

const (
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Screen is the single top-level screen a session state maps to.
type Screen string

const (
	ScreenSpinner   Screen = "spinner"
	ScreenSignIn    Screen = "sign_in"
	ScreenDashboard Screen = "dashboard"
)

// Session is owned by one request and never shared.
type Session struct {
	state State
	user  *models.User
	err   string
}

// New returns a session that is still resolving.
func New() *Session {
	return &Session{state: StateLoading}
}

// Authenticate settles the session on user and clears any earlier error.
// A nil user settles it as anonymous.
func (s *Session) Authenticate(user *models.User) {
	if user == nil {
		s.Anonymous()
		return
	}
	s.state = StateAuthenticated
	s.user = user
	s.err = ""
}

func (s *Session) Anonymous() {
	s.state = StateAnonymous
	s.user = nil
}

// Fail leaves the session anonymous with msg shown on the sign-in form.
func (s *Session) Fail(msg string) {
	if msg == "" {
		msg = DefaultSignInError
	}
	s.Anonymous()
	s.err = msg
}

// SignOut drops the user and error immediately.
func (s *Session) SignOut() {
	s.state = StateAnonymous
	s.user = nil
	s.err = ""
}

func (s *Session) State() State        { return s.state }
func (s *Session) User() *models.User  { return s.user }
func (s *Session) Error() string       { return s.err }
func (s *Session) Loading() bool       { return s.state == StateLoading }
func (s *Session) Authenticated() bool { return s.state == StateAuthenticated }

func (s *Session) Screen() Screen {
	switch s.state {
	case StateAuthenticated:
		return ScreenDashboard
	case StateAnonymous:
		return ScreenSignIn
	default:
		return ScreenSpinner
	}
}

// Snapshot is the wire form of a session.
type Snapshot struct {
	State   State           `json:"state"`
	Screen  Screen          `json:"screen"`
	Loading bool            `json:"loading"`
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
	Initial string          `json:"initial,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:   s.state,
		Screen:  s.Screen(),
		Loading: s.Loading(),
		Error:   s.err,
	}
	if s.user != nil {
		p := s.user.Profile()
		snap.User = s.user
		snap.Profile = &p
		snap.Initial = s.user.Initial()
	}
	return snap
}
