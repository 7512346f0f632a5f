package models

import (
	"encoding/json"
	"time"
)

// User is an account: credential plus the sessions currently allowed to
// authenticate as it.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Sessions     []Session
	CreatedAt    time.Time
}

// PublicUser is the only outward representation of a User.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// MarshalJSON always emits the public view so that credentials and sessions
// cannot leak through accidental serialization.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Public())
}

// HasSession reports whether token is registered for purpose.
func (u *User) HasSession(purpose, token string) bool {
	for _, s := range u.Sessions {
		if s.Token == token && s.Purpose == purpose {
			return true
		}
	}
	return false
}
