package auth

// Package auth contains domain-level types for the client session.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"strings"
)

// ErrPartialSession is returned when a user triple is missing a field.
var ErrPartialSession = errors.New("session requires user id, name and email")

// User is the identity triple returned by the API for an authenticated principal.
// This is also the persisted record layout.
type User struct {
	ID    string `json:"userId"`
	Name  string `json:"userName"`
	Email string `json:"userEmail"`
}

// Validate reports ErrPartialSession unless every field is set.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return ErrPartialSession
	}
	return nil
}

// Session is either Absent (the zero value) or Present with a full User.
// The only way to obtain a present session is Present, so a partially
// populated session cannot exist.
type Session struct {
	user *User
}

// Absent returns the "unknown" session.
func Absent() Session { return Session{} }

// Present builds a present session, rejecting partial users.
func Present(u User) (Session, error) {
	if err := u.Validate(); err != nil {
		return Session{}, err
	}
	cp := u
	return Session{user: &cp}, nil
}

// IsPresent reports whether the session carries an identity.
func (s Session) IsPresent() bool { return s.user != nil }

// User returns a copy of the session identity and whether one is present.
func (s Session) User() (User, bool) {
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// UserID returns the identity id, or "" when absent.
func (s Session) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// String implements fmt.Stringer without leaking the email address.
func (s Session) String() string {
	if s.user == nil {
		return "session(absent)"
	}
	return "session(" + s.user.ID + ")"
}
