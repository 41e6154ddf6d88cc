package session

import (
	"errors"

	"github.com/tylerpac/solace-client/token"
)

// ErrNotAuthenticated is returned when an operation requires a live session
// and none is held.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the client's local belief about being signed in as a user,
// backed by a bearer token. It is only *authenticated* while the token
// decodes and its expiry lies in the future.
type Session struct {
	Token    string
	Username string
}

// Authenticated reports whether the session token currently passes the
// client-side expiry check.
func (s Session) Authenticated() bool {
	return token.IsValid(s.Token)
}

// Fingerprint returns the short display id derived from the token. It is
// never used for authorization.
func (s Session) Fingerprint() string {
	return token.SessionFingerprint(s.Token)
}
