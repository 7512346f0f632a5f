package models

import "time"

// Session is one live (purpose, token) pair owned by a user.
type Session struct {
	Purpose   string
	Token     string
	CreatedAt time.Time
}

// SessionFilter selects sessions to remove. Empty fields match anything.
type SessionFilter struct {
	Purpose string
	Token   string
}

// Matches reports whether s is selected by f.
func (f SessionFilter) Matches(s Session) bool {
	if f.Purpose != "" && s.Purpose != f.Purpose {
		return false
	}
	if f.Token != "" && s.Token != f.Token {
		return false
	}
	return true
}
