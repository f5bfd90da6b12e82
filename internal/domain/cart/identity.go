// internal/domain/cart/identity.go
package cart

import (
	"errors"
	"strconv"
)

// ErrNoIdentity is returned when neither a user nor a session can be established
var ErrNoIdentity = errors.New("no cart identity: user or session required")

// Identity locates a cart without requiring login. The HTTP layer resolves the
// user ID from the bearer token and the session ID from the session cookie;
// this type only carries the already-resolved pair.
type Identity struct {
	UserID    *uint
	SessionID string
}

// NewIdentity builds a cart identity from an optional user ID and session ID.
// Fails when both are absent.
func NewIdentity(userID *uint, sessionID string) (Identity, error) {
	if userID == nil && sessionID == "" {
		return Identity{}, ErrNoIdentity
	}
	return Identity{UserID: userID, SessionID: sessionID}, nil
}

// IsAuthenticated reports whether the identity belongs to a logged-in user
func (i Identity) IsAuthenticated() bool {
	return i.UserID != nil
}

// Key returns a stable cache key for the identity
func (i Identity) Key() string {
	if i.UserID != nil {
		return "user:" + strconv.FormatUint(uint64(*i.UserID), 10)
	}
	return "session:" + i.SessionID
}
