package identity

import "github.com/google/uuid"

// Session identifies the caller of an operation. The zero value is anonymous.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// NewSession creates the session of an authenticated user
func NewSession(userID uuid.UUID, email string) Session {
	return Session{UserID: userID, Email: email}
}

// IsAuthenticated reports whether the session belongs to a signed-in user
func (s Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil
}

// Owner returns the user id in the form memory cards store it, or "" when anonymous
func (s Session) Owner() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.UserID.String()
}
