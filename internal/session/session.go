package session

// Session is the explicit per-request authentication state. Handlers build it
// from the session cookie and pass it into the linking engine; the engine
// calls Login when an operation authenticates a user, and the handler turns
// that back into a fresh cookie.
type Session struct {
	userID   string
	loggedIn bool
}

// Authenticated returns a session for an already-authenticated user.
func Authenticated(userID string) *Session {
	return &Session{userID: userID}
}

// Anonymous returns a session with no authenticated user.
func Anonymous() *Session {
	return &Session{}
}

// IsAuthenticated reports whether a user is bound to the session.
func (s *Session) IsAuthenticated() bool {
	return s.userID != ""
}

// UserID returns the authenticated user's id, or empty when anonymous.
func (s *Session) UserID() string {
	return s.userID
}

// Login binds the session to the given user.
func (s *Session) Login(userID string) {
	s.userID = userID
	s.loggedIn = true
}

// LoggedInNow reports whether Login was called on this session during the
// current operation, meaning the caller must issue a new session credential.
func (s *Session) LoggedInNow() bool {
	return s.loggedIn
}
